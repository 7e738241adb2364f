package pdf

// Acceso a los helpers de layout desde los tests de caja negra.
var (
	SummaryLines = summaryLines
	ItemCells    = itemCells
	FooterLines  = footerLines
	EPCPayload   = epcPayload
)
