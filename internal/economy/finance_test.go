package economy

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSpendMoneyRecordsIncome(t *testing.T) {
	f := NewFinance(10000)
	f.SpendMoney(-500, ExpenditureParkRideTickets)
	f.SpendMoney(200, ExpenditureWages)

	assert.Equal(t, Money(10300), f.Cash)
	assert.Equal(t, Money(500), f.Income(ExpenditureParkRideTickets))
	assert.Equal(t, Money(-200), f.Income(ExpenditureWages))
	assert.Equal(t, Money(500), f.TotalIncome)
}

func TestWeeklyRollover(t *testing.T) {
	f := NewFinance(0)
	f.SpendMoney(-30, ExpenditureShopSales)
	f.WeeklyRollover()

	assert.Equal(t, Money(30), f.LastWeek[ExpenditureShopSales])
	assert.Zero(t, f.Income(ExpenditureShopSales))
}

func TestMoneyString(t *testing.T) {
	assert.Equal(t, "£1,250.50", Money(12505).String())
	assert.Equal(t, "-£0.50", Money(-5).String())
	assert.Equal(t, "ride tickets", ExpenditureParkRideTickets.String())
}
