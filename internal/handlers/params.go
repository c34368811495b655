package handlers

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/termin-notifier/internal/httperr"
	"github.com/BruksfildServices01/termin-notifier/internal/timezone"
)

// uintParam reads a positive numeric path parameter, answering 400 itself
// when it is not one.
func uintParam(c *gin.Context, name string) (uint, bool) {
	v, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || v == 0 {
		httperr.BadRequest(c, "invalid_"+name, "Invalid "+name+".")
		return 0, false
	}
	return uint(v), true
}

// timeParam reads an ISO-8601 instant; naive values are taken as UTC.
func timeParam(c *gin.Context, name string) (time.Time, bool) {
	t, err := timezone.ParseTerm(c.Param(name), time.UTC)
	if err != nil {
		httperr.BadRequest(c, "invalid_"+name, "Invalid "+name+".")
		return time.Time{}, false
	}
	return t, true
}

// fail writes a business error when err has a code, or a 500 with code.
func fail(c *gin.Context, err error, code string) {
	if httperr.Business(c, err) {
		return
	}
	_ = c.Error(err)
	httperr.Internal(c, code, "Internal error.")
}
