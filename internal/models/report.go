package models

// CategorySpendingColumns are the exported column headers, in order.
var CategorySpendingColumns = []string{
	"Дата платежа",
	"Номер карты",
	"Статус",
	"Сумма операции",
	"Кэшбэк",
	"MCC",
	"Категория",
	"Описание",
	"Округление на инвесткопилку",
	"Бонусы (включая кэшбэк)",
}

// CategorySpending is one expense row of the spending-by-category report.
type CategorySpending struct {
	PaymentDate    string  `json:"payment_date"`
	CardNumber     string  `json:"card_number"`
	Status         string  `json:"status"`
	Amount         float64 `json:"amount"`
	Cashback       float64 `json:"cashback"`
	MCC            float64 `json:"mcc"`
	Category       string  `json:"category"`
	Description    string  `json:"description"`
	InvestRounding float64 `json:"invest_rounding"`
	Bonuses        float64 `json:"bonuses"`
}

// Values returns the row in CategorySpendingColumns order.
func (c CategorySpending) Values() []interface{} {
	return []interface{}{
		c.PaymentDate,
		c.CardNumber,
		c.Status,
		c.Amount,
		c.Cashback,
		c.MCC,
		c.Category,
		c.Description,
		c.InvestRounding,
		c.Bonuses,
	}
}
