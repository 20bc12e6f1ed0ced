package utils

import (
	"net/http"
	"strings"

	"github.com/julienschmidt/httprouter"
)

// ExtractNameFromParams retrieves a route parameter such as a suite name from
// the request context, dropping a trailing ".json" so both /check/schema and
// /check/schema.json resolve to the same suite.
func ExtractNameFromParams(r *http.Request, paramName string) string {
	params := httprouter.ParamsFromContext(r.Context())
	raw := params.ByName(paramName)
	return strings.Split(raw, ".json")[0]
}
