package restapi

import (
	"net/http"

	"qtdata.quanttide.cn/internal/models"
	"qtdata.quanttide.cn/internal/suite"
)

type suiteEntry struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

func (api *RestAPI) suitesHandler(w http.ResponseWriter, r *http.Request) {
	entries := make([]suiteEntry, 0, len(suite.All))
	for _, s := range suite.All {
		entries = append(entries, suiteEntry{Name: s.Name, Description: s.Description})
	}
	api.sendResponse(w, r, models.NewListResponse(entries))
}
