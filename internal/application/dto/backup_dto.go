package dto

// BackupResponse respuesta de POST /api/backups.
type BackupResponse struct {
	Name string `json:"name"` // nombre a usar en la restauración
	Path string `json:"path"`
}

// RestoreBackupRequest body para POST /api/backups/restore. Name es el nombre de un
// archivo del directorio de backups.
type RestoreBackupRequest struct {
	Name string `json:"name"`
}

// MessageResponse respuesta simple de confirmación.
type MessageResponse struct {
	Message string `json:"message"`
}

// ExportResponse volcado completo de los datos, una clave por archivo de datos.
type ExportResponse struct {
	ExportedAt string            `json:"exported_at"`
	Company    *CompanyRequest   `json:"company"`
	Clients    []ClientResponse  `json:"clients"`
	Products   []ProductResponse `json:"products"`
	Invoices   []InvoiceResponse `json:"invoices"`
}

// StatsResponse conteos de GET /api/stats.
type StatsResponse struct {
	CompanyConfigured bool `json:"company_configured"`
	ClientsCount      int  `json:"clients_count"`
	ProductsCount     int  `json:"products_count"`
	InvoicesCount     int  `json:"invoices_count"`
}
