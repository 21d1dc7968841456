package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/smmpanel/smm-client/internal/core/domain"
	"github.com/smmpanel/smm-client/internal/core/navigation"
	"github.com/smmpanel/smm-client/internal/core/service"
)

// screen adapts a plain render function to a router factory.
func screen(render func(ctx context.Context, r navigation.Route) error) navigation.Factory[view] {
	return func(_ context.Context, r navigation.Route) (view, error) {
		return func(ctx context.Context) error { return render(ctx, r) }, nil
	}
}

func (c *cli) registerScreens() {
	r := c.router
	r.Register(navigation.Splash, screen(c.splash))
	r.Register(navigation.Login, screen(c.login))
	r.Register(navigation.Register, screen(c.register))
	r.Register(navigation.ForgotPassword, screen(c.forgotPassword))
	r.Register(navigation.VerifyOTP, screen(c.verifyOTP))
	r.Register(navigation.ResetPassword, screen(c.resetPassword))
	r.Register(navigation.Dashboard, screen(c.dashboard))
	r.Register(navigation.Profile, screen(c.profile))
	r.Register(navigation.EditProfile, screen(c.editProfile))
	r.Register(navigation.ChangePassword, screen(c.changePassword))
	r.Register(navigation.Services, screen(c.services))
	r.Register(navigation.NewOrder, screen(c.newOrder))
	r.Register(navigation.Orders, screen(c.orders))
	r.Register(navigation.OrderDetails, screen(c.orderDetails))
	r.Register(navigation.Wallet, screen(c.wallet))
	r.Register(navigation.Transactions, screen(c.transactions))
	r.Register(navigation.AddFunds, screen(c.addFunds))
	r.Register(navigation.PaymentStatus, screen(c.paymentStatus))
	r.Register(navigation.Tickets, screen(c.tickets))
	r.Register(navigation.NewTicket, screen(c.newTicket))
	r.Register(navigation.TicketDetails, screen(c.ticketDetails))
	r.Register(navigation.APIKeys, screen(c.apiKeys))
	r.Register(navigation.SMS, screen(c.sms))
	r.Register(navigation.Logout, screen(c.logout))
}

// --- Public screens ---

func (c *cli) splash(ctx context.Context, _ navigation.Route) error {
	c.printf("SMM panel client (%s)\n", c.app.Config.API.BaseURL)
	if s := c.app.Session.Current(ctx); s.Authenticated() {
		c.printf("Logged in as %s, balance %s\n", s.User.DisplayName(), money(s.WalletBalance))
	} else {
		c.printf("Not logged in\n")
	}

	c.printf("\nScreens:\n")
	t := c.table()
	for _, s := range screenOrder {
		access := ""
		if !s.Public() {
			access = "login required"
		}
		t.row(string(s), access)
	}
	return t.flush()
}

var screenOrder = []navigation.Screen{
	navigation.Login, navigation.Register, navigation.ForgotPassword, navigation.VerifyOTP, navigation.ResetPassword,
	navigation.Dashboard, navigation.Profile, navigation.EditProfile, navigation.ChangePassword,
	navigation.Services, navigation.NewOrder, navigation.Orders, navigation.OrderDetails,
	navigation.Wallet, navigation.Transactions, navigation.AddFunds, navigation.PaymentStatus,
	navigation.Tickets, navigation.NewTicket, navigation.TicketDetails,
	navigation.APIKeys, navigation.SMS, navigation.Logout,
}

func (c *cli) login(ctx context.Context, _ navigation.Route) error {
	if c.form.username == "" {
		c.printf("Please log in: smmctl login -username <name>\n")
		return nil
	}
	sess, err := c.app.Auth.Login(ctx, domain.LoginForm{
		Username: c.form.username,
		Password: c.secret(c.form.password, "Password"),
	})
	if err != nil {
		return err
	}
	c.printf("Welcome back, %s\n\n", sess.User.DisplayName())
	return c.navigate(ctx, string(navigation.Dashboard), nil)
}

func (c *cli) register(ctx context.Context, _ navigation.Route) error {
	password := c.secret(c.form.password, "Password")
	sess, err := c.app.Auth.Register(ctx, domain.RegisterForm{
		Username:        c.form.username,
		Email:           c.form.email,
		Password:        password,
		PasswordConfirm: c.secret(c.form.confirm, "Confirm password"),
		FirstName:       c.form.firstName,
		LastName:        c.form.lastName,
	})
	if err != nil {
		return err
	}
	c.printf("Account created, welcome %s\n\n", sess.User.DisplayName())
	return c.navigate(ctx, string(navigation.Dashboard), nil)
}

func (c *cli) forgotPassword(ctx context.Context, _ navigation.Route) error {
	msg, err := c.app.Auth.RequestPasswordReset(ctx, domain.ResetRequestForm{Email: c.form.email})
	if err != nil {
		return err
	}
	c.printf("%s\n", orDefault(msg, "A reset code was sent to "+c.form.email))
	c.printf("Next: smmctl verify-otp -email %s -otp <code>\n", c.form.email)
	return nil
}

func (c *cli) verifyOTP(ctx context.Context, r navigation.Route) error {
	p, _ := navigation.ParamsOf[navigation.VerifyOTPParams](r)
	if err := c.app.Auth.VerifyResetOTP(ctx, domain.OTPForm{Email: p.Email, OTP: c.form.otp}); err != nil {
		return err
	}
	c.printf("Code verified\n")
	c.printf("Next: smmctl reset-password -email %s -otp %s\n", p.Email, c.form.otp)
	return nil
}

func (c *cli) resetPassword(ctx context.Context, r navigation.Route) error {
	p, _ := navigation.ParamsOf[navigation.ResetPasswordParams](r)
	password := c.secret(c.form.password, "New password")
	msg, err := c.app.Auth.ConfirmPasswordReset(ctx, domain.ResetConfirmForm{
		Email:           p.Email,
		OTP:             p.OTP,
		NewPassword:     password,
		ConfirmPassword: c.secret(c.form.confirm, "Confirm new password"),
	})
	if err != nil {
		return err
	}
	c.printf("%s\n", orDefault(msg, "Password changed, you can log in now"))
	return nil
}

// --- Account ---

func (c *cli) dashboard(ctx context.Context, _ navigation.Route) error {
	o, err := c.app.Dashboard.Overview(ctx)
	if err != nil {
		return err
	}
	if u := c.app.Session.User(ctx); u != nil {
		c.printf("Dashboard for %s\n\n", u.DisplayName())
	}

	t := c.table()
	t.row("Balance", money(o.Wallet.Balance))
	t.row("Total deposits", money(o.Wallet.TotalDeposits))
	t.row("Total spent", money(o.Stats.TotalSpent))
	t.row("Orders", fmt.Sprintf("%d (%d active, %d completed)", o.Stats.TotalOrders, o.Stats.ActiveOrders, o.Stats.CompletedOrders))
	t.row("Open tickets", fmt.Sprint(o.Stats.OpenTickets))
	if err := t.flush(); err != nil {
		return err
	}

	if len(o.RecentOrders) == 0 {
		c.printf("\nNo orders yet\n")
		return nil
	}
	c.printf("\nRecent orders:\n")
	return c.orderTable(o.RecentOrders)
}

func (c *cli) profile(ctx context.Context, _ navigation.Route) error {
	u, err := c.app.Profile.Get(ctx)
	if err != nil {
		return err
	}
	t := c.table()
	t.row("Username", u.Username)
	t.row("Email", u.Email)
	t.row("Name", u.DisplayName())
	if s := c.app.Session.Current(ctx); s.Authenticated() {
		t.row("Balance", money(s.WalletBalance))
		if s.ExpiresAt != nil {
			t.row("Session expires", s.ExpiresAt.Local().Format("2006-01-02 15:04"))
		}
	}
	return t.flush()
}

func (c *cli) editProfile(ctx context.Context, _ navigation.Route) error {
	u, err := c.app.Profile.Update(ctx, domain.ProfileForm{FirstName: c.form.firstName, LastName: c.form.lastName})
	if err != nil {
		return err
	}
	c.printf("Profile updated: %s\n", u.DisplayName())
	return nil
}

func (c *cli) changePassword(ctx context.Context, _ navigation.Route) error {
	old := c.secret(c.form.oldPassword, "Current password")
	password := c.secret(c.form.password, "New password")
	err := c.app.Profile.ChangePassword(ctx, domain.ChangePasswordForm{
		OldPassword:     old,
		NewPassword:     password,
		ConfirmPassword: c.secret(c.form.confirm, "Confirm new password"),
	})
	if err != nil {
		return err
	}
	c.printf("Password changed\n")
	return nil
}

func (c *cli) logout(ctx context.Context, _ navigation.Route) error {
	if err := c.app.Auth.Logout(ctx); err != nil {
		return err
	}
	c.printf("Logged out\n\n")
	return c.navigate(ctx, string(navigation.Splash), nil)
}

// --- Orders ---

func (c *cli) services(ctx context.Context, _ navigation.Route) error {
	list, err := c.app.Orders.Services(ctx)
	if err != nil {
		return err
	}
	t := c.table()
	t.row("ID", "CATEGORY", "NAME", "RATE/1000", "MIN", "MAX")
	for _, s := range list {
		if c.form.category != "" && !strings.EqualFold(s.Category, c.form.category) {
			continue
		}
		t.row(s.ID.String(), s.Category, s.Name, money(s.Rate), fmt.Sprint(s.Min), fmt.Sprint(s.Max))
	}
	return t.flush()
}

func (c *cli) newOrder(ctx context.Context, r navigation.Route) error {
	p, ok := navigation.ParamsOf[navigation.NewOrderParams](r)
	if !ok {
		c.printf("Pick a service: smmctl services, then smmctl new-order -service <id> -link <url> -quantity <n>\n")
		return nil
	}

	// Loading the catalog enables the min/max check and the estimate.
	if _, err := c.app.Orders.Services(ctx); err != nil {
		return err
	}
	if svc, found := c.app.Orders.Lookup(p.ServiceID); found && c.form.quantity > 0 {
		c.printf("%s: estimated charge %s\n", svc.Name, money(svc.EstimateCharge(c.form.quantity)))
	}

	placed, err := c.app.Orders.Create(ctx, domain.NewOrderForm{
		ServiceID: p.ServiceID,
		Link:      c.form.link,
		Quantity:  c.form.quantity,
		Comments:  c.form.comments,
	})
	if err != nil {
		return err
	}
	c.printf("Order %s placed, charged %s, balance %s\n", placed.OrderID, money(placed.Charge), money(placed.NewBalance))
	return nil
}

func (c *cli) orders(ctx context.Context, _ navigation.Route) error {
	list, err := c.app.Orders.List(ctx)
	if err != nil {
		return err
	}
	if len(list) == 0 {
		c.printf("No orders yet\n")
		return nil
	}
	return c.orderTable(list)
}

func (c *cli) orderDetails(ctx context.Context, r navigation.Route) error {
	p, _ := navigation.ParamsOf[navigation.OrderDetailsParams](r)
	o, err := c.app.Orders.Status(ctx, p.OrderID)
	if err != nil {
		return err
	}
	t := c.table()
	t.row("Order", o.OrderID.String())
	t.row("Service", o.ServiceName)
	t.row("Link", o.Link)
	t.row("Status", fmt.Sprintf("%s (%s)", o.Status, o.Status.Tone()))
	t.row("Quantity", fmt.Sprint(o.Quantity))
	t.row("Delivered", fmt.Sprintf("%d of %d", o.Delivered(), o.Quantity))
	t.row("Charge", money(o.Charge))
	t.row("Created", when(o.CreatedAt))
	if o.CompletedAt != nil {
		t.row("Completed", when(*o.CompletedAt))
	}
	return t.flush()
}

// --- Wallet and payments ---

func (c *cli) wallet(ctx context.Context, _ navigation.Route) error {
	w, err := c.app.Wallet.Summary(ctx)
	if err != nil {
		return err
	}
	t := c.table()
	t.row("Balance", money(w.Balance))
	t.row("Total deposits", money(w.TotalDeposits))
	t.row("Total spent", money(w.TotalSpent))
	return t.flush()
}

func (c *cli) transactions(ctx context.Context, _ navigation.Route) error {
	list, err := c.app.Wallet.Transactions(ctx)
	if err != nil {
		return err
	}
	t := c.table()
	t.row("DATE", "TYPE", "AMOUNT", "DESCRIPTION")
	for _, tx := range list {
		sign := "-"
		if tx.Type.Credit() {
			sign = "+"
		}
		t.row(when(tx.CreatedAt), string(tx.Type), sign+money(tx.Amount.Abs()), tx.Description)
	}
	return t.flush()
}

func (c *cli) addFunds(ctx context.Context, _ navigation.Route) error {
	amount, err := decimal.NewFromString(c.form.amount)
	if err != nil {
		return fmt.Errorf("%w: amount must be a number", domain.ErrValidation)
	}

	quote, err := c.app.Bonus.Quote(ctx, amount)
	switch {
	case err == nil && quote.BonusAmount.IsPositive():
		c.printf("Bonus %s%%: +%s, you get %s\n", quote.BonusPercentage.String(), money(quote.BonusAmount), money(quote.TotalAmount))
	case err == nil:
		c.printf("No bonus for %s\n", money(amount))
	case c.form.quoteOnly:
		return err
	default:
		c.app.Log.Debug().Err(err).Msg("bonus quote unavailable")
	}
	if c.form.quoteOnly {
		return nil
	}

	payment, err := c.app.Payments.Create(ctx, domain.PaymentForm{
		Amount:   amount,
		Method:   domain.PaymentMethod(c.form.method),
		Currency: c.form.currency,
		Network:  c.form.network,
	})
	if err != nil {
		return err
	}
	return c.navigate(ctx, string(navigation.PaymentStatus), navigation.PaymentStatusParams{
		OrderID: payment.OrderID,
		Payment: payment,
	})
}

func (c *cli) paymentStatus(ctx context.Context, r navigation.Route) error {
	p, _ := navigation.ParamsOf[navigation.PaymentStatusParams](r)
	if pay := p.Payment; pay != nil {
		c.printf("Payment %s: send %s %s", pay.OrderID, money(pay.Amount), pay.Currency)
		if pay.Network != "" {
			c.printf(" (%s)", pay.Network)
		}
		c.printf(" to\n  %s\n", pay.Destination())
	}

	if !c.form.wait {
		state, err := c.app.Payments.Status(ctx, p.OrderID)
		if err != nil {
			return err
		}
		c.printf("Status: %s\n", state.Status)
		return nil
	}

	c.printf("Waiting for payment %s (Ctrl+C to stop)\n", p.OrderID)
	var last domain.PaymentStatus
	res, err := c.app.Poller.Watch(ctx, p.OrderID, func(s domain.PaymentState) {
		if s.Status != last {
			c.printf("  %s\n", s.Status)
			last = s.Status
		}
	})
	if err != nil {
		if errors.Is(err, context.Canceled) {
			c.printf("Stopped waiting\n")
			return nil
		}
		return err
	}
	if !res.Final {
		c.printf("Still pending after %d checks. Check again with: smmctl payment-status -id %s\n", res.Attempts, p.OrderID)
		return nil
	}
	if res.Value.Status == domain.PaymentPaid {
		c.printf("Payment received\n")
	} else {
		c.printf("Payment ended: %s\n", res.Value.Status)
	}
	return nil
}

// --- Support ---

func (c *cli) tickets(ctx context.Context, _ navigation.Route) error {
	list := c.app.Support.List(ctx)
	if len(list) == 0 {
		c.printf("No tickets\n")
		return nil
	}
	t := c.table()
	t.row("ID", "STATUS", "SUBJECT", "REPLIES", "CREATED")
	for _, tk := range list {
		t.row(tk.TicketID.String(), string(tk.Status), tk.Subject, fmt.Sprint(tk.RepliesCount), when(tk.CreatedAt))
	}
	return t.flush()
}

func (c *cli) newTicket(ctx context.Context, _ navigation.Route) error {
	tk, err := c.app.Support.Create(ctx, domain.TicketForm{
		Subject:  c.form.subject,
		Message:  c.form.message,
		Priority: c.form.priority,
	})
	if err != nil {
		return err
	}
	c.printf("Ticket %s created\n", tk.TicketID)
	return nil
}

func (c *cli) ticketDetails(ctx context.Context, r navigation.Route) error {
	p, _ := navigation.ParamsOf[navigation.TicketDetailsParams](r)

	if c.form.reply != "" {
		if err := c.app.Support.Reply(ctx, p.TicketID, domain.TicketReplyForm{Message: c.form.reply}); err != nil {
			return err
		}
		c.printf("Reply sent\n")
	}
	if c.form.cancel {
		if err := c.app.Support.Close(ctx, p.TicketID); err != nil {
			return err
		}
		c.printf("Ticket closed\n")
	}

	tk, err := c.app.Support.Get(ctx, p.TicketID)
	if err != nil {
		return err
	}
	c.printf("#%s %s [%s]\n\n%s\n", tk.TicketID, tk.Subject, tk.Status, tk.Message)
	for _, rep := range tk.Replies {
		who := "You"
		if rep.IsStaff {
			who = "Support"
		}
		c.printf("\n%s, %s:\n%s\n", who, when(rep.CreatedAt), rep.Message)
	}
	return nil
}

// --- API keys and SMS ---

func (c *cli) apiKeys(ctx context.Context, _ navigation.Route) error {
	switch {
	case c.form.name != "":
		key, err := c.app.APIKeys.Create(ctx, domain.APIKeyForm{Name: c.form.name})
		if err != nil {
			return err
		}
		c.printf("Key %q created. Copy it now, it is shown only once:\n  %s\n", key.Name, key.Key)
		return nil
	case c.form.revoke != "":
		if err := c.app.APIKeys.Delete(ctx, domain.ID(c.form.revoke)); err != nil {
			return err
		}
		c.printf("Key %s deleted\n", c.form.revoke)
		return nil
	}

	keys, err := c.app.APIKeys.List(ctx)
	if err != nil {
		return err
	}
	t := c.table()
	t.row("ID", "NAME", "KEY", "ACTIVE", "LAST USED")
	for _, k := range keys {
		used := "never"
		if k.LastUsedAt != nil {
			used = when(*k.LastUsedAt)
		}
		t.row(k.ID.String(), k.Name, k.Masked(), fmt.Sprint(k.IsActive), used)
	}
	return t.flush()
}

func (c *cli) sms(ctx context.Context, _ navigation.Route) error {
	switch {
	case c.form.rent != "":
		rental, err := c.app.SMS.Rent(ctx, domain.SMSRentForm{Service: c.form.rent, Country: c.form.country})
		if err != nil {
			return err
		}
		c.printf("Rental %s: %s, cost %s\n", rental.RentalID, rental.PhoneNumber, money(rental.Cost))
		if c.form.wait {
			return c.waitForCode(ctx, rental.RentalID)
		}
		return nil

	case c.form.id != "":
		id := domain.ID(c.form.id)
		if c.form.cancel {
			if err := c.app.SMS.Cancel(ctx, id); err != nil {
				return err
			}
			c.printf("Rental %s cancelled\n", id)
			return nil
		}
		if c.form.wait {
			return c.waitForCode(ctx, id)
		}
		rental, err := c.app.SMS.Rental(ctx, id)
		if err != nil {
			return err
		}
		c.printf("Rental %s: %s [%s]", rental.RentalID, rental.PhoneNumber, rental.Status)
		if rental.HasCode() {
			c.printf(" code %s", rental.Code)
		}
		c.printf("\n")
		return nil
	}

	offers, err := c.app.SMS.Offers(ctx)
	if err != nil {
		return err
	}
	t := c.table()
	t.row("SERVICE", "NAME", "COUNTRY", "PRICE", "AVAILABLE")
	for _, o := range offers {
		t.row(o.Service, o.Name, o.Country, money(o.Price), fmt.Sprint(o.Available))
	}
	return t.flush()
}

func (c *cli) waitForCode(ctx context.Context, id domain.ID) error {
	c.printf("Waiting for SMS on rental %s (Ctrl+C to stop)\n", id)
	res, err := c.app.SMS.WaitForCode(ctx, id, service.SMSCodePollPolicy)
	if err != nil {
		return err
	}
	switch {
	case res.Value != nil && res.Value.HasCode():
		c.printf("Code: %s\n", res.Value.Code)
	case res.Value != nil && res.Final:
		c.printf("Rental ended without a code: %s\n", res.Value.Status)
	default:
		c.printf("No code yet. Check again with: smmctl sms -rental %s\n", id)
	}
	return nil
}
