package dto

// MaxImportRows tope de filas por lote.
const MaxImportRows = 5000

// ImportRequest filas tabulares ya leídas de la hoja; las claves son nombres de columna.
type ImportRequest struct {
	Rows []map[string]any `json:"rows" validate:"required,min=1,max=5000"`
}

// ColumnErrorResponse problema a nivel de encabezados.
type ColumnErrorResponse struct {
	Column string `json:"column"`
	Error  string `json:"error"`
}

// ItemErrorResponse problema en una celda.
type ItemErrorResponse struct {
	ItemIndex int    `json:"itemIndex"`
	Field     string `json:"field"`
	Value     any    `json:"value"`
	Error     string `json:"error"`
}

// ValidationReportResponse informe completo; Valid=false si hay cualquier error.
type ValidationReportResponse struct {
	Code    string                `json:"code,omitempty"`
	Valid   bool                  `json:"valid"`
	Columns []ColumnErrorResponse `json:"columns"`
	Items   []ItemErrorResponse   `json:"items"`
}

// ImportResponse resultado de un lote confirmado.
type ImportResponse struct {
	BatchID   string   `json:"batchId"`
	Created   int      `json:"created"`
	Updated   int      `json:"updated"`
	PublicIDs []string `json:"publicIds"`
}
