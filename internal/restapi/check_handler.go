package restapi

import (
	"net/http"

	"qtdata.quanttide.cn/internal/models"
	"qtdata.quanttide.cn/internal/suite"
	"qtdata.quanttide.cn/internal/utils"
)

type checkData struct {
	Suite      string              `json:"suite"`
	Status     string              `json:"status"`
	Checks     []suite.CheckResult `json:"checks"`
	DurationMs int64               `json:"durationMs"`
}

func (api *RestAPI) checkHandler(w http.ResponseWriter, r *http.Request) {
	name := utils.ExtractNameFromParams(r, "suite")

	result, err := suite.RunByName(name, api.Workspace)
	if err != nil {
		api.sendNotFound(w, r)
		return
	}

	api.sendResponse(w, r, models.NewEntryResponse(checkData{
		Suite:      result.Suite,
		Status:     result.Status(),
		Checks:     result.Checks,
		DurationMs: result.Duration.Milliseconds(),
	}))
}
