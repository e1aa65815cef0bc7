package model

// Contract is one entry of the contract list. Vulnerabilities is the ground
// truth the detection rates are measured against.
type Contract struct {
	Name            string           `json:"name"`
	Vulnerabilities VulnerabilitySet `json:"-"`
	Link            string           `json:"link"`
}

func (c Contract) Declares(v Vulnerability) bool {
	return c.Vulnerabilities.Has(v)
}

// ContractNames returns the names of cs, preserving order.
func ContractNames(cs []Contract) []string {
	names := make([]string, 0, len(cs))
	for _, c := range cs {
		names = append(names, c.Name)
	}
	return names
}
