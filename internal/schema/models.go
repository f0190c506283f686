// Package schema defines the typed, per-item response shapes an
// extraction model must produce (§6.6), replacing the source's runtime
// schema validation with discriminated Go structs. All monetary values
// are integer cents.
package schema

// DueAt enumerates when an Item 5 fee is due.
type DueAt string

const (
	DueAtSigning  DueAt = "signing"
	DueAtTraining DueAt = "training"
	DueAtOpening  DueAt = "opening"
	DueAtOther    DueAt = "other"
)

// AdditionalFee is one named fee beyond the initial franchise fee.
type AdditionalFee struct {
	Name        string `json:"name"`
	AmountCents int64  `json:"amount_cents"`
	DueAt       DueAt  `json:"due_at"`
}

// Discount expresses either a flat amount or a percentage, never both.
type Discount struct {
	Name          string   `json:"name"`
	AmountCents   *int64   `json:"amount_cents,omitempty"`
	Percentage    *float64 `json:"percentage,omitempty"`
}

// Item5Fees is Item 5's initial franchise fee schedule.
type Item5Fees struct {
	InitialFranchiseFeeCents int64           `json:"initial_franchise_fee_cents"`
	AdditionalFees           []AdditionalFee `json:"additional_fees"`
	Discounts                []Discount      `json:"discounts"`
	DueAt                    DueAt           `json:"due_at"`
	Refundable               bool            `json:"refundable"`
	PaymentTerms             string          `json:"payment_terms,omitempty"`
	Notes                    string          `json:"notes,omitempty"`
}

// RecurringFee is one Item 6 recurring obligation.
type RecurringFee struct {
	Name            string `json:"name"`
	AmountOrFormula string `json:"amount_or_formula"`
	Frequency       string `json:"frequency"`
	DueOn           string `json:"due_on"`
	Description     string `json:"description,omitempty"`
}

// Item6OtherFees is Item 6's list of recurring fees.
type Item6OtherFees struct {
	Fees []RecurringFee `json:"fees"`
}

// InvestmentRow is one Item 7 estimated-investment line.
type InvestmentRow struct {
	Category         string `json:"category"`
	AmountLowCents   int64  `json:"amount_low_cents"`
	AmountHighCents  int64  `json:"amount_high_cents"`
	MethodOfPayment  string `json:"method_of_payment,omitempty"`
	WhenDue          string `json:"when_due,omitempty"`
	ToWhom           string `json:"to_whom,omitempty"`
}

// Item7Investment is Item 7's estimated initial investment table.
type Item7Investment struct {
	Rows []InvestmentRow `json:"rows"`
}

// FPRTable is one named table in an Item 19 financial performance
// representation.
type FPRTable struct {
	Name    string     `json:"name"`
	Headers []string   `json:"headers"`
	Rows    [][]string `json:"rows"`
}

// Item19FPR is Item 19's financial performance representation.
type Item19FPR struct {
	Tables  []FPRTable `json:"tables"`
	Summary string     `json:"summary,omitempty"`
	Notes   string      `json:"notes,omitempty"`
}

// OutletTransfer records outlet count changes for one state/year.
type OutletTransfer struct {
	State           string `json:"state"`
	Year            int    `json:"year"`
	OutletsStart    int    `json:"outlets_start"`
	OutletsOpened   int    `json:"outlets_opened"`
	OutletsClosed   int    `json:"outlets_closed"`
	OutletsTransferred int `json:"outlets_transferred"`
	OutletsEnd      int    `json:"outlets_end"`
}

// Item20Outlets is Item 20's outlet count and transfer table.
type Item20Outlets struct {
	Transfers []OutletTransfer `json:"transfers"`
}

// FinancialStatementRef points at one audited statement referenced by
// Item 21, along with any audit notes.
type FinancialStatementRef struct {
	StatementName string `json:"statement_name"`
	FiscalYear    int    `json:"fiscal_year"`
	AuditorNote   string `json:"auditor_note,omitempty"`
}

// Item21Financials is Item 21's financial-statement references.
type Item21Financials struct {
	Statements []FinancialStatementRef `json:"statements"`
	Notes      string                  `json:"notes,omitempty"`
}
