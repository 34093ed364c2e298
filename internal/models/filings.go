package models

import "time"

// InstitutionalFiling is one parsed 13F holdings disclosure.
type InstitutionalFiling struct {
	CIK         string        `json:"cik"`
	CompanyName string        `json:"company_name"`
	FormType    string        `json:"form_type"`
	AccessionNo string        `json:"accession_no"`
	FilingURL   string        `json:"filing_url"`
	FiledAt     time.Time     `json:"filed_at"`
	Positions   []RawPosition `json:"positions"`
	// Dropped counts entries whose CUSIP could not be resolved to a ticker.
	Unresolved int `json:"unresolved,omitempty"`
}
