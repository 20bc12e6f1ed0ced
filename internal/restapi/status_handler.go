package restapi

import (
	"net/http"

	"qtdata.quanttide.cn/internal/models"
)

func (api *RestAPI) statusHandler(w http.ResponseWriter, r *http.Request) {
	summary := api.Workspace.Statistics()
	api.sendResponse(w, r, models.NewEntryResponse(summary))
}
