package service

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/smmpanel/smm-client/internal/core/domain"
)

func TestProfileService_GetRefreshesCachedUser(t *testing.T) {
	f := newFixture()
	f.login("abc", "alice")
	f.api.on("GET", "user/profile/", `{"user":{"id":3,"username":"alice","first_name":"Alice","last_name":"Liddell"}}`)
	svc := NewProfileService(f.api, f.session, f.validate, zerolog.Nop())
	ctx := context.Background()

	user, err := svc.Get(ctx)
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if user.DisplayName() != "Alice Liddell" {
		t.Fatalf("unexpected user %+v", user)
	}
	if cached := f.session.User(ctx); cached.ID != "3" {
		t.Fatalf("expected cached user refreshed, got %+v", cached)
	}
}

func TestProfileService_UpdatePatchesCachedUser(t *testing.T) {
	f := newFixture()
	f.login("abc", "alice")
	f.api.on("PATCH", "user/profile/update/", `{"success":true}`)
	svc := NewProfileService(f.api, f.session, f.validate, zerolog.Nop())
	ctx := context.Background()

	user, err := svc.Update(ctx, domain.ProfileForm{FirstName: "Alice", LastName: "L"})
	if err != nil {
		t.Fatalf("Update returned error: %v", err)
	}
	if user.Username != "alice" || user.FirstName != "Alice" {
		t.Fatalf("unexpected user %+v", user)
	}
	if f.session.User(ctx).LastName != "L" {
		t.Fatalf("expected cached last name L")
	}
}

func TestProfileService_ChangePasswordMustDiffer(t *testing.T) {
	f := newFixture()
	svc := NewProfileService(f.api, f.session, f.validate, zerolog.Nop())

	err := svc.ChangePassword(context.Background(), domain.ChangePasswordForm{
		OldPassword:     "samesame1",
		NewPassword:     "samesame1",
		ConfirmPassword: "samesame1",
	})
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestWalletService(t *testing.T) {
	f := newFixture()
	f.api.
		on("GET", "wallet/summary/", `{"balance":"20.00","total_deposits":50,"total_spent":"30"}`).
		on("GET", "wallet/transactions/", `{"count":1,"results":[{"type":"deposit","amount":"50"}]}`)
	svc := NewWalletService(f.api)
	ctx := context.Background()

	summary, err := svc.Summary(ctx)
	if err != nil || !summary.TotalDeposits.Equal(decimal.NewFromInt(50)) {
		t.Fatalf("unexpected summary %+v, %v", summary, err)
	}
	txs, err := svc.Transactions(ctx)
	if err != nil || len(txs) != 1 || !txs[0].Type.Credit() {
		t.Fatalf("unexpected transactions %+v, %v", txs, err)
	}
}

func TestPaymentService_Create(t *testing.T) {
	f := newFixture()
	f.api.on("POST", "payments/create/", `{"order_id":"INV-1","payment_url":"https://pay.example/INV-1","network":"TRC20"}`)
	svc := NewPaymentService(f.api, f.validate, zerolog.Nop())

	payment, err := svc.Create(context.Background(), domain.PaymentForm{
		Amount:   decimal.RequireFromString("10.50"),
		Method:   domain.PaymentInvoice,
		Currency: "USDT",
		Network:  "TRC20",
	})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if payment.Destination() != "https://pay.example/INV-1" || payment.Status != domain.PaymentPending {
		t.Fatalf("unexpected payment %+v", payment)
	}
	if body := f.api.last().body; body != `{"amount":10.5,"payment_method":"invoice","currency":"USDT","network":"TRC20"}` {
		t.Fatalf("unexpected body %s", body)
	}
}

func TestPaymentService_CreateValidation(t *testing.T) {
	f := newFixture()
	svc := NewPaymentService(f.api, f.validate, zerolog.Nop())

	bad := []domain.PaymentForm{
		{Amount: decimal.Zero, Method: domain.PaymentInvoice, Currency: "USDT"},
		{Amount: decimal.NewFromInt(-1), Method: domain.PaymentInvoice, Currency: "USDT"},
		{Amount: decimal.NewFromInt(10), Method: "card", Currency: "USDT"},
	}
	for _, form := range bad {
		if _, err := svc.Create(context.Background(), form); !errors.Is(err, domain.ErrValidation) {
			t.Fatalf("expected ErrValidation for %+v, got %v", form, err)
		}
	}
}

func TestSupportService_ListSwallowsErrors(t *testing.T) {
	f := newFixture()
	f.api.fail("GET", "tickets/", errors.New("connection refused"))
	svc := NewSupportService(f.api, f.validate, zerolog.Nop())

	tickets := svc.List(context.Background())
	if tickets == nil || len(tickets) != 0 {
		t.Fatalf("expected empty non-nil list, got %#v", tickets)
	}
}

func TestSupportService_Lifecycle(t *testing.T) {
	f := newFixture()
	f.api.
		on("POST", "tickets/", `{"ticket_id":5,"subject":"Refill","status":"open"}`).
		on("GET", "tickets/", `[{"ticket_id":5,"subject":"Refill","status":"open"}]`).
		on("POST", "tickets/5/reply/", `{"success":true}`).
		on("POST", "tickets/5/close/", `{"success":true}`).
		on("GET", "tickets/5/", `{"ticket_id":5,"status":"closed","replies":[{"message":"done","is_staff":true}]}`)
	svc := NewSupportService(f.api, f.validate, zerolog.Nop())
	ctx := context.Background()

	ticket, err := svc.Create(ctx, domain.TicketForm{Subject: "Refill", Message: "Order 1842 dropped", Priority: "high"})
	if err != nil || ticket.TicketID != "5" {
		t.Fatalf("Create = %+v, %v", ticket, err)
	}
	if _, err := svc.Create(ctx, domain.TicketForm{Subject: "x", Message: "y", Priority: "urgent"}); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected invalid priority to fail, got %v", err)
	}
	if list := svc.List(ctx); len(list) != 1 {
		t.Fatalf("expected one ticket, got %d", len(list))
	}
	if err := svc.Reply(ctx, "5", domain.TicketReplyForm{Message: "any update?"}); err != nil {
		t.Fatalf("Reply returned error: %v", err)
	}
	if err := svc.Close(ctx, "5"); err != nil {
		t.Fatalf("Close returned error: %v", err)
	}
	got, err := svc.Get(ctx, "5")
	if err != nil || got.Status.IsOpen() || len(got.Replies) != 1 {
		t.Fatalf("Get = %+v, %v", got, err)
	}
}

func TestAPIKeyService(t *testing.T) {
	f := newFixture()
	f.api.
		on("GET", "api-keys/", `[{"id":1,"name":"bot","key":"sk_live_abcdef123456","is_active":true}]`).
		on("POST", "api-keys/", `{"id":2,"name":"ci","key":"sk_live_zyxwvu987654"}`).
		on("DELETE", "api-keys/2/", `{}`)
	svc := NewAPIKeyService(f.api, f.validate)
	ctx := context.Background()

	keys, err := svc.List(ctx)
	if err != nil || len(keys) != 1 || keys[0].Name != "bot" {
		t.Fatalf("List = %+v, %v", keys, err)
	}
	key, err := svc.Create(ctx, domain.APIKeyForm{Name: "ci"})
	if err != nil || key.ID != "2" {
		t.Fatalf("Create = %+v, %v", key, err)
	}
	if err := svc.Delete(ctx, key.ID); err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}
	if f.api.count("DELETE", "api-keys/2/") != 1 {
		t.Fatalf("expected one delete call")
	}
}

func TestSMSService_RentAndCancel(t *testing.T) {
	f := newFixture()
	f.api.
		on("GET", "sms/services/", `[{"service":"tg","name":"Telegram","country":"ee","price":"0.40","available":12}]`).
		on("POST", "sms/rent/", `{"rental_id":"r1","phone_number":"+3725550100","status":"waiting","cost":"0.40"}`).
		on("POST", "sms/rentals/r1/cancel/", `{"success":true}`)
	svc := NewSMSService(f.api, f.validate)
	ctx := context.Background()

	offers, err := svc.Offers(ctx)
	if err != nil || len(offers) != 1 {
		t.Fatalf("Offers = %+v, %v", offers, err)
	}
	rental, err := svc.Rent(ctx, domain.SMSRentForm{Service: "tg", Country: "ee"})
	if err != nil || rental.PhoneNumber != "+3725550100" {
		t.Fatalf("Rent = %+v, %v", rental, err)
	}
	if err := svc.Cancel(ctx, rental.RentalID); err != nil {
		t.Fatalf("Cancel returned error: %v", err)
	}
}

func TestDashboardService_Overview(t *testing.T) {
	f := newFixture()
	f.api.
		on("GET", "dashboard/stats/", `{"total_orders":7,"total_spent":"40.10","active_orders":2}`).
		on("GET", "wallet/summary/", `{"balance":"9.90"}`).
		on("GET", "orders/", `[{"order_id":1},{"order_id":2},{"order_id":3},{"order_id":4},{"order_id":5},{"order_id":6},{"order_id":7}]`)
	orders := NewOrderService(f.api, f.session, f.validate, zerolog.Nop())
	svc := NewDashboardService(f.api, NewWalletService(f.api), orders)

	ov, err := svc.Overview(context.Background())
	if err != nil {
		t.Fatalf("Overview returned error: %v", err)
	}
	if ov.Stats.TotalOrders != 7 || !ov.Wallet.Balance.Equal(decimal.RequireFromString("9.9")) {
		t.Fatalf("unexpected overview %+v", ov)
	}
	if len(ov.RecentOrders) != recentOrders {
		t.Fatalf("expected %d recent orders, got %d", recentOrders, len(ov.RecentOrders))
	}
}

func TestDashboardService_OverviewFailsAsAWhole(t *testing.T) {
	f := newFixture()
	f.api.
		on("GET", "dashboard/stats/", `{"total_orders":7}`).
		fail("GET", "wallet/summary/", &domain.APIError{StatusCode: 500, Message: "boom"}).
		on("GET", "orders/", `[]`)
	orders := NewOrderService(f.api, f.session, f.validate, zerolog.Nop())
	svc := NewDashboardService(f.api, NewWalletService(f.api), orders)

	if _, err := svc.Overview(context.Background()); domain.StatusOf(err) != 500 {
		t.Fatalf("expected wallet failure, got %v", err)
	}
}
