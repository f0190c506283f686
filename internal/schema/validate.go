package schema

import (
	"encoding/json"
	"fmt"

	"github.com/spherical-ai/fdd-pipeline/internal/domainerr"
)

const maxInitialFeeCents = int64(1e8)

// Validator is implemented by every per-item response type; Validate
// reports the first schema violation found, or nil if the response is
// well-formed per §6.6.
type Validator interface {
	Validate() error
}

func (f Item5Fees) Validate() error {
	if f.InitialFranchiseFeeCents < 0 || f.InitialFranchiseFeeCents > maxInitialFeeCents {
		return fmt.Errorf("initial_franchise_fee_cents %d out of range [0, %d]", f.InitialFranchiseFeeCents, maxInitialFeeCents)
	}
	switch f.DueAt {
	case DueAtSigning, DueAtTraining, DueAtOpening, DueAtOther:
	default:
		return fmt.Errorf("due_at %q is not a recognized value", f.DueAt)
	}
	for i, d := range f.Discounts {
		hasAmount := d.AmountCents != nil
		hasPct := d.Percentage != nil
		if hasAmount == hasPct {
			return fmt.Errorf("discount[%d] must set exactly one of amount_cents or percentage", i)
		}
	}
	return nil
}

func (f Item6OtherFees) Validate() error {
	for i, fee := range f.Fees {
		if fee.Name == "" {
			return fmt.Errorf("fees[%d].name is required", i)
		}
		if fee.Frequency == "" {
			return fmt.Errorf("fees[%d].frequency is required", i)
		}
	}
	return nil
}

func (inv Item7Investment) Validate() error {
	for i, row := range inv.Rows {
		if row.Category == "" {
			return fmt.Errorf("rows[%d].category is required", i)
		}
		if row.AmountHighCents < row.AmountLowCents {
			return fmt.Errorf("rows[%d] amount_high_cents < amount_low_cents", i)
		}
	}
	return nil
}

func (f Item19FPR) Validate() error {
	for i, tbl := range f.Tables {
		if tbl.Name == "" {
			return fmt.Errorf("tables[%d].name is required", i)
		}
		for r, row := range tbl.Rows {
			if len(row) != len(tbl.Headers) {
				return fmt.Errorf("tables[%d].rows[%d] has %d cells, want %d", i, r, len(row), len(tbl.Headers))
			}
		}
	}
	return nil
}

func (o Item20Outlets) Validate() error {
	for i, t := range o.Transfers {
		if t.State == "" {
			return fmt.Errorf("transfers[%d].state is required", i)
		}
		if t.Year <= 0 {
			return fmt.Errorf("transfers[%d].year must be positive", i)
		}
	}
	return nil
}

func (f Item21Financials) Validate() error {
	for i, s := range f.Statements {
		if s.StatementName == "" {
			return fmt.Errorf("statements[%d].statement_name is required", i)
		}
	}
	return nil
}

// newForItem returns an empty, addressable response value for itemNo,
// or false if the item has no registered schema.
func newForItem(itemNo int) (any, bool) {
	switch itemNo {
	case 5:
		return &Item5Fees{}, true
	case 6:
		return &Item6OtherFees{}, true
	case 7:
		return &Item7Investment{}, true
	case 19:
		return &Item19FPR{}, true
	case 20:
		return &Item20Outlets{}, true
	case 21:
		return &Item21Financials{}, true
	default:
		return nil, false
	}
}

// HasSchema reports whether itemNo has a registered response schema.
func HasSchema(itemNo int) bool {
	_, ok := newForItem(itemNo)
	return ok
}

// ParseAndValidate unmarshals raw JSON into itemNo's registered response
// type and validates it. A JSON decode error or failed Validate() both
// surface as the same schema-violation error (§4.6: both are the
// model's failure, the engine does not distinguish them).
func ParseAndValidate(itemNo int, raw string) (any, error) {
	target, ok := newForItem(itemNo)
	if !ok {
		return nil, fmt.Errorf("item %d has no registered response schema", itemNo)
	}
	if err := json.Unmarshal([]byte(raw), target); err != nil {
		return nil, domainerr.NewSchemaViolation(fmt.Sprintf("decode item %d response", itemNo), err)
	}
	v, ok := target.(Validator)
	if !ok {
		return target, nil
	}
	if err := v.Validate(); err != nil {
		return nil, domainerr.NewSchemaViolation(fmt.Sprintf("item %d response failed validation", itemNo), err)
	}
	return target, nil
}
