package server

import (
	"fmt"
	"strconv"

	"github.com/gin-gonic/gin"
)

// intQuery parses an integer query parameter with a default.
func intQuery(c *gin.Context, name string, def int) (int, error) {
	raw := c.Query(name)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer", name)
	}
	return v, nil
}

// optInt64Query parses an optional non-negative integer parameter.
func optInt64Query(c *gin.Context, name string) (*int64, error) {
	raw := c.Query(name)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("%s must be an integer", name)
	}
	if v < 0 {
		return nil, fmt.Errorf("%s must be >= 0", name)
	}
	return &v, nil
}

// optFloatQuery parses an optional float parameter.
func optFloatQuery(c *gin.Context, name string) (*float64, error) {
	raw := c.Query(name)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, fmt.Errorf("%s must be a number", name)
	}
	return &v, nil
}

// optNonNegFloatQuery is optFloatQuery restricted to values >= 0.
func optNonNegFloatQuery(c *gin.Context, name string) (*float64, error) {
	v, err := optFloatQuery(c, name)
	if err != nil {
		return nil, err
	}
	if v != nil && *v < 0 {
		return nil, fmt.Errorf("%s must be >= 0", name)
	}
	return v, nil
}

// boolQuery parses a boolean query parameter with a default.
func boolQuery(c *gin.Context, name string, def bool) (bool, error) {
	raw := c.Query(name)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("%s must be a boolean", name)
	}
	return v, nil
}
