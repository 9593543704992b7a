package constants

// ValidationFlag names a single advisory finding about an extracted invoice.
// Flags never block processing; they are metadata for review.
type ValidationFlag string

const (
	FlagMissingAccessKey ValidationFlag = "SEM_CHAVE"
	FlagMissingIssuerID  ValidationFlag = "SEM_CNPJ_EMITENTE"
	FlagMissingDate      ValidationFlag = "SEM_DATA"
	FlagMissingTotal     ValidationFlag = "SEM_VALOR"
	FlagZeroTotal        ValidationFlag = "VALOR_ZERO"
	FlagFutureDate       ValidationFlag = "DATA_FUTURA"
	FlagAncientDate      ValidationFlag = "DATA_ANTIGA"
	FlagInvalidDate      ValidationFlag = "DATA_INVALIDA"
)

// EarliestPlausibleYear is the cutoff below which an issuance date is flagged
// DATA_ANTIGA. Electronic fiscal documents do not exist before it.
const EarliestPlausibleYear = 2006
