package constants

// DocType is the canonical fiscal document type for an extracted invoice.
type DocType string

// Stable values (store these exact strings in exports and the DB).
const (
	DocTypeNFe  DocType = "NF-e"  // goods invoice (DANFE)
	DocTypeNFSe DocType = "NFS-e" // service invoice
	DocTypeCTe  DocType = "CT-e"  // transport manifest (DACTE)
	DocTypeCCe  DocType = "CC-e"  // correction letter
)

// DocTypes holds the allowed document types in declaration order.
var DocTypes = []DocType{DocTypeNFe, DocTypeNFSe, DocTypeCTe, DocTypeCCe}

func (t DocType) String() string { return string(t) }
