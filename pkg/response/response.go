package response

import "github.com/gin-gonic/gin"

type Meta struct {
	Page      int   `json:"page"`
	Limit     int   `json:"limit"`
	Total     int64 `json:"total"`
	TotalPage int   `json:"total_page"`
}

// Envelope is the uniform response shape: Status mirrors the HTTP status
// class, Detail carries the machine-readable error group on failure.
type Envelope struct {
	Status  bool   `json:"status"`
	Message string `json:"message"`
	Detail  string `json:"detail,omitempty"`
	Data    any    `json:"data,omitempty"`
	Meta    *Meta  `json:"metadata,omitempty"`
}

func OK(c *gin.Context, code int, message string, data any) {
	c.JSON(code, Envelope{Status: true, Message: message, Data: data})
}

func OKWithMeta(c *gin.Context, code int, message string, data any, meta *Meta) {
	c.JSON(code, Envelope{Status: true, Message: message, Data: data, Meta: meta})
}

func Error(c *gin.Context, code int, message, detail string) {
	c.JSON(code, Envelope{Status: false, Message: message, Detail: detail})
}

func AbortError(c *gin.Context, code int, message, detail string) {
	c.AbortWithStatusJSON(code, Envelope{Status: false, Message: message, Detail: detail})
}
