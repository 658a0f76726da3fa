package taxonomy

// Jurisdiction marks whether an office answers at national or regional level.
type Jurisdiction string

const (
	JurisdictionCentral Jurisdiction = "central"
	JurisdictionState   Jurisdiction = "state"
)

// OfficeIDUnresolved is the sentinel office id used when routing cannot
// resolve any responsible office. Drafting still succeeds against it; the
// document carries a pending-manual-routing marker instead of an addressee.
const OfficeIDUnresolved = "UNRESOLVED"

// Office is an immutable reference entity describing one Public Information
// Officer destination. Many categories may bind to one office.
type Office struct {
	ID           string       `json:"id"`
	Department   string       `json:"department"`
	Jurisdiction Jurisdiction `json:"jurisdiction"`

	// Region is the state name for state offices, empty for central ones.
	Region string `json:"region,omitempty"`

	OfficerName string `json:"officer_name"`
	Email       string `json:"email"`
	Address     string `json:"address"`

	// PortalURL is the submission endpoint used by the filing gateway.
	PortalURL string `json:"portal_url"`

	// BaseFee is the application fee in whole rupees.
	BaseFee int64 `json:"base_fee"`

	// Categories lists the category ids this office serves.
	Categories []string `json:"categories"`
}

// Unresolved reports whether o is the sentinel office.
func (o *Office) Unresolved() bool {
	return o != nil && o.ID == OfficeIDUnresolved
}

// unresolvedOffice is the process-wide sentinel returned by routing when no
// binding exists. It is not part of any catalog file.
var unresolvedOffice = &Office{
	ID:           OfficeIDUnresolved,
	Department:   "Destination Pending Manual Resolution",
	Jurisdiction: JurisdictionCentral,
	PortalURL:    "https://rtionline.gov.in",
}

// UnresolvedOffice returns the shared sentinel office.
func UnresolvedOffice() *Office {
	return unresolvedOffice
}
