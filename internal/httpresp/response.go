package httpresp

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Envelope wraps every successful payload as {success:true, data:...}.
type Envelope struct {
	Success bool `json:"success"`
	Data    any  `json:"data"`
}

func OK(c *gin.Context, data any) {
	c.JSON(http.StatusOK, Envelope{Success: true, Data: data})
}

func Created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, Envelope{Success: true, Data: data})
}

// List always serializes an empty slice as [], never null: an empty
// result is a successful outcome.
func List[T any](c *gin.Context, data []T) {
	if data == nil {
		data = []T{}
	}
	OK(c, data)
}
