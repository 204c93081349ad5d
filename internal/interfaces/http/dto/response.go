package dto

// Response is the envelope of every JSON answer:
// {"success": true, "data": ...} or {"success": false, "error": {...}}.
// List endpoints add meta.
type Response struct {
	Success bool       `json:"success"`
	Data    any        `json:"data,omitempty"`
	Error   *ErrorInfo `json:"error,omitempty"`
	Meta    *Meta      `json:"meta,omitempty"`
}

type ErrorInfo struct {
	Code      string             `json:"code"`
	Message   string             `json:"message"`
	RequestID string             `json:"request_id,omitempty"`
	Details   []ValidationDetail `json:"details,omitempty"`
}

// ValidationDetail names one rejected request field
type ValidationDetail struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type Meta struct {
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	TotalPages int   `json:"total_pages"`
}

const defaultPageSize = 20

// NewMeta fills in page 1 and the default page size when the caller passed
// zero values.
func NewMeta(total int64, page, pageSize int) *Meta {
	page = max(page, 1)
	if pageSize < 1 {
		pageSize = defaultPageSize
	}
	return &Meta{
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: int((total + int64(pageSize) - 1) / int64(pageSize)),
	}
}

func OK(data any) Response {
	return Response{Success: true, Data: data}
}

// Page wraps one page of a list
func Page(data any, total int64, page, pageSize int) Response {
	return Response{Success: true, Data: data, Meta: NewMeta(total, page, pageSize)}
}

// Fail builds an error envelope. Details are only sent for ERR_VALIDATION.
func Fail(code, message string, details ...ValidationDetail) Response {
	return Response{Error: &ErrorInfo{Code: code, Message: message, Details: details}}
}

// WithRequestID tags an error envelope so clients can quote it to support.
func (r Response) WithRequestID(id string) Response {
	if r.Error != nil {
		info := *r.Error
		info.RequestID = id
		r.Error = &info
	}
	return r
}
