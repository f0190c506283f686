package section

// CanonicalNames maps each of the 25 logical FDD sections (0 = cover/TOC,
// 1-23 = regulated items, 24 = appendix/exhibits) to its canonical name.
// Item 17 is "Renewal, Termination, Transfer, and Dispute Resolution" per
// the FTC-standard mapping (the source material contains a second,
// conflicting "Financial Performance" label for item 17; this repository
// follows the FTC mapping, which is also what item 19 ("Financial
// Performance Representations") already covers).
var CanonicalNames = map[int]string{
	0:  "Cover/Introduction/Table of Contents",
	1:  "The Franchisor and any Parents, Predecessors, and Affiliates",
	2:  "Business Experience",
	3:  "Litigation",
	4:  "Bankruptcy",
	5:  "Initial Fees",
	6:  "Other Fees",
	7:  "Estimated Initial Investment",
	8:  "Restrictions on Sources of Products and Services",
	9:  "Franchisee's Obligations",
	10: "Financing",
	11: "Franchisor's Assistance, Advertising, Computer Systems, and Training",
	12: "Territory",
	13: "Trademarks",
	14: "Patents, Copyrights, and Proprietary Information",
	15: "Obligation to Participate in the Actual Operation of the Franchise Business",
	16: "Restrictions on What the Franchisee May Sell",
	17: "Renewal, Termination, Transfer, and Dispute Resolution",
	18: "Public Figures",
	19: "Financial Performance Representations",
	20: "Outlets and Franchisee Information",
	21: "Financial Statements",
	22: "Contracts",
	23: "Receipts",
	24: "Appendix/Exhibits",
}

// Variations lists additional accepted names/phrases per item, used by the
// fuzzy and cosine evidence methods alongside the canonical name.
var Variations = map[int][]string{
	1:  {"The Franchisor, its Predecessors and Affiliates"},
	5:  {"Initial Franchise Fee", "Initial Fee"},
	6:  {"Other Fees", "Ongoing Fees", "Royalty"},
	7:  {"Estimated Initial Investment", "Initial Investment"},
	11: {"Franchisor's Assistance", "Training"},
	17: {"Renewal, Termination, Transfer and Dispute Resolution"},
	19: {"Earnings Claims", "Financial Performance"},
	20: {"Outlets and Franchisee Information", "List of Outlets"},
	21: {"Financial Statements", "Audited Financial Statements"},
}

// MinPageRequirements gives the minimum page count each section must span
// after assignment; items absent from this map have no minimum (1 applies
// trivially since start_page <= end_page always holds).
var MinPageRequirements = map[int]int{
	7:  2,
	11: 3,
	17: 3,
	19: 2,
	20: 3,
	21: 2,
}

// validationRule gives the required (any-of) and disqualifying (any-of)
// keyword sets used to reject item candidates whose text doesn't actually
// look like that item's content.
type validationRule struct {
	required       []string
	disqualifying []string
}

var validationRules = map[int]validationRule{
	5:  {required: []string{"initial", "fee", "franchise fee"}, disqualifying: []string{"adjusted gross revenue", "royalty fee"}},
	6:  {required: []string{"other", "fee", "ongoing", "royalty"}},
	7:  {required: []string{"investment", "initial", "estimated"}},
	8:  {required: []string{"restrictions", "sources", "products", "services"}, disqualifying: []string{"financial statements", "audited", "balance sheet"}},
	19: {required: []string{"financial", "performance", "representation", "earnings"}},
	21: {required: []string{"financial", "statement", "audit"}},
}

const totalItems = 25 // items 0..24
