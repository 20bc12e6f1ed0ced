// Package webui serves the debug pages: raw dumps of the parsed workspace
// components for eyeballing what the tool actually loaded.
package webui

import (
	"embed"
	"html/template"
	"net/http"

	"github.com/davecgh/go-spew/spew"

	"qtdata.quanttide.cn/internal/workspace"
)

//go:embed debug_index.html
var templateFS embed.FS

// WebUI holds the dependencies for the debug pages.
type WebUI struct {
	Workspace *workspace.Manager
}

type debugData struct {
	Title string
	Pre   string
}

func writeDebugData(w http.ResponseWriter, title string, data interface{}) {
	content := spew.Sdump(data)
	w.Header().Set("Content-Type", "text/html")
	tmpl, err := template.ParseFS(templateFS, "debug_index.html")
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	dataStruct := debugData{
		Title: title,
		Pre:   content,
	}

	err = tmpl.Execute(w, dataStruct)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (webUI *WebUI) debugIndexHandler(w http.ResponseWriter, r *http.Request) {
	dataType := r.URL.Query().Get("dataType")

	var data interface{}
	var title string
	var err error

	switch dataType {
	case "statistics":
		data = webUI.Workspace.Statistics()
		title = "Workspace - Statistics"
	case "plan":
		data, err = webUI.Workspace.Plan()
		title = "Workspace - Cleaning Plan"
	case "schema":
		data, err = webUI.Workspace.Schema()
		title = "Workspace - Schema Document"
	case "raw":
		data, err = webUI.Workspace.RawRecords()
		title = "Workspace - Raw Records"
	case "cleaned":
		data, err = webUI.Workspace.CleanedRecords()
		title = "Workspace - Cleaned Records"
	case "manifest":
		data, err = webUI.Workspace.DatasetManifest()
		title = "Workspace - Dataset Manifest"
	default:
		data = map[string]string{
			"error": "Please use one of the following: statistics, plan, schema, raw, cleaned, manifest.",
		}
		title = "Workspace Debug"
	}

	if err != nil {
		data = map[string]string{"error": err.Error()}
	}

	writeDebugData(w, title, data)
}
