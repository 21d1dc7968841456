package main

import (
	"fmt"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/shopspring/decimal"

	"github.com/smmpanel/smm-client/internal/core/domain"
)

type table struct {
	w *tabwriter.Writer
}

func (c *cli) table() *table {
	return &table{w: tabwriter.NewWriter(c.out, 0, 0, 2, ' ', 0)}
}

func (t *table) row(cols ...string) {
	fmt.Fprintln(t.w, strings.Join(cols, "\t"))
}

func (t *table) flush() error {
	return t.w.Flush()
}

func (c *cli) orderTable(orders []domain.Order) error {
	t := c.table()
	t.row("ID", "SERVICE", "STATUS", "QTY", "REMAINS", "CHARGE", "CREATED")
	for _, o := range orders {
		t.row(o.OrderID.String(), o.ServiceName, string(o.Status), fmt.Sprint(o.Quantity), fmt.Sprint(o.Remains), money(o.Charge), when(o.CreatedAt))
	}
	return t.flush()
}

func money(d decimal.Decimal) string {
	return "$" + d.StringFixed(2)
}

func when(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format("2006-01-02 15:04")
}

func orDefault(s, fallback string) string {
	if strings.TrimSpace(s) == "" {
		return fallback
	}
	return s
}
