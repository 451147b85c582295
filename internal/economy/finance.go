// Package economy provides park finance: cash, expenditure categories, and the
// weekly ledger guest spending flows into.
package economy

import (
	"fmt"

	"github.com/dustin/go-humanize"
)

// Money is an amount in tenths of a currency unit, matching ride and shop prices.
type Money int32

// MoneyNull marks an unset price.
const MoneyNull Money = -1 << 31

// String renders the amount as currency, e.g. "£1,250.50".
func (m Money) String() string {
	neg := m < 0
	v := int64(m)
	if neg {
		v = -v
	}
	s := fmt.Sprintf("£%s.%02d", humanize.Comma(v/10), (v%10)*10)
	if neg {
		return "-" + s
	}
	return s
}

// ExpenditureType categorises park income and spending for reporting.
type ExpenditureType uint8

const (
	ExpenditureRideConstruction ExpenditureType = iota
	ExpenditureParkEntranceTickets
	ExpenditureParkRideTickets
	ExpenditureShopSales
	ExpenditureShopStock
	ExpenditureFoodDrinkSales
	ExpenditureFoodDrinkStock
	ExpenditureWages
	ExpenditureMarketing
	ExpenditureResearch
	ExpenditureInterest
	ExpenditureRunningCosts
	ExpenditureCount
)

var expenditureNames = [ExpenditureCount]string{
	"ride construction",
	"park entrance tickets",
	"ride tickets",
	"shop sales",
	"shop stock",
	"food/drink sales",
	"food/drink stock",
	"staff wages",
	"marketing",
	"research",
	"loan interest",
	"ride running costs",
}

func (e ExpenditureType) String() string {
	if e >= ExpenditureCount {
		return "unknown"
	}
	return expenditureNames[e]
}

// Finance is the park's bank account. Positive amounts passed to SpendMoney are
// outgoings; negative amounts are income.
type Finance struct {
	Cash        Money                   `json:"cash"`
	ThisWeek    [ExpenditureCount]Money `json:"this_week"`
	LastWeek    [ExpenditureCount]Money `json:"last_week"`
	TotalIncome Money                   `json:"total_income"`
}

// NewFinance opens an account with starting cash.
func NewFinance(cash Money) *Finance {
	return &Finance{Cash: cash}
}

// SpendMoney moves amount out of the park account under category. Guest payments
// arrive here as negative amounts.
func (f *Finance) SpendMoney(amount Money, category ExpenditureType) {
	if category >= ExpenditureCount {
		category = ExpenditureRunningCosts
	}
	f.Cash -= amount
	f.ThisWeek[category] -= amount
	if amount < 0 {
		f.TotalIncome -= amount
	}
}

// Income returns this week's net takings in a category.
func (f *Finance) Income(category ExpenditureType) Money {
	if category >= ExpenditureCount {
		return 0
	}
	return f.ThisWeek[category]
}

// WeeklyRollover archives this week's ledger and starts a new one.
func (f *Finance) WeeklyRollover() {
	f.LastWeek = f.ThisWeek
	f.ThisWeek = [ExpenditureCount]Money{}
}

// Summary returns a one-line description of the account.
func (f *Finance) Summary() string {
	var week Money
	for _, v := range f.ThisWeek {
		week += v
	}
	return fmt.Sprintf("cash %s, this week %s", f.Cash, week)
}
