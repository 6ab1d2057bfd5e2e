package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"math"
	"net/http"
	"os"
	"path/filepath"
	"strconv"

	"github.com/alexiusacademia/gopanel/internal/boundary"
	"github.com/alexiusacademia/gopanel/internal/diagram"
	"github.com/alexiusacademia/gopanel/internal/fem"
	"github.com/alexiusacademia/gopanel/internal/laminate"
	"github.com/alexiusacademia/gopanel/internal/material"
	"github.com/alexiusacademia/gopanel/internal/panel"
	"github.com/alexiusacademia/gopanel/internal/report"
	"github.com/alexiusacademia/gopanel/internal/shell"
	"github.com/alexiusacademia/gopanel/internal/store"
	"github.com/gorilla/mux"
)

type errorResponse struct {
	Error  string   `json:"error"`
	Issues []string `json:"issues,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("encode response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

// fail maps an analysis error onto an HTTP status
func fail(w http.ResponseWriter, err error) {
	var (
		verr     *laminate.ValidationError
		bkey     *boundary.KeyError
		mkey     *material.KeyError
		mcfg     *material.ConfigError
		degen    *shell.DegenerateError
		syntax   *json.SyntaxError
		typeErr  *json.UnmarshalTypeError
		tooLarge *http.MaxBytesError
	)
	switch {
	case errors.As(err, &verr):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid definition", Issues: verr.Issues})
	case errors.As(err, &tooLarge):
		writeError(w, http.StatusRequestEntityTooLarge, err.Error())
	case errors.As(err, &bkey), errors.As(err, &mkey), errors.As(err, &mcfg),
		errors.As(err, &degen), errors.As(err, &syntax), errors.As(err, &typeErr),
		errors.Is(err, io.ErrUnexpectedEOF), errors.Is(err, io.EOF):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, fem.ErrSingularSystem), errors.Is(err, material.ErrNumericDomain),
		errors.Is(err, laminate.ErrSingularStiffness):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
	default:
		log.Printf("internal error: %v", err)
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

type materialEntry struct {
	Key      string                `json:"key"`
	Material *material.Orthotropic `json:"material"`
}

func (s *Server) Materials(w http.ResponseWriter, r *http.Request) {
	var list []materialEntry
	for _, key := range material.PresetNames() {
		m, err := material.Preset(key)
		if err != nil {
			fail(w, err)
			return
		}
		list = append(list, materialEntry{Key: key, Material: m})
	}
	writeJSON(w, http.StatusOK, list)
}

func (s *Server) Material(w http.ResponseWriter, r *http.Request) {
	key := mux.Vars(r)["key"]
	m, err := material.Preset(key)
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, materialEntry{Key: m.Name, Material: m})
}

type laminateResponse struct {
	Laminate laminate.Summary `json:"laminate"`
	Stress   *laminate.Stress `json:"stress,omitempty"`
}

func (s *Server) AnalyzeLaminate(w http.ResponseWriter, r *http.Request) {
	var def laminate.Definition
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBody)).Decode(&def); err != nil {
		fail(w, err)
		return
	}
	if err := def.Validate(); err != nil {
		fail(w, err)
		return
	}
	lam, err := def.Build()
	if err != nil {
		fail(w, err)
		return
	}

	resp := laminateResponse{Laminate: lam.Summary()}
	if def.Load != nil {
		resp.Stress, err = lam.Stress(*def.Load)
		if err != nil {
			fail(w, err)
			return
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

// analyze decodes, bounds and solves a panel definition
func (s *Server) analyze(w http.ResponseWriter, r *http.Request) (*panel.Analysis, error) {
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBody))
	if err != nil {
		return nil, err
	}
	def, err := panel.Parse(data)
	if err != nil {
		return nil, err
	}
	if err := s.checkMeshSize(def); err != nil {
		return nil, err
	}
	return panel.Run(def, fem.Options{Workers: s.cfg.Workers})
}

// checkMeshSize rejects meshes above MaxNodes. Each side is checked before
// the node count is multiplied out.
func (s *Server) checkMeshSize(def *panel.Definition) error {
	if s.MaxNodes <= 0 {
		return nil
	}
	nLen, nWid := def.MeshDivisions()
	if nLen < 1 || nWid < 1 {
		return nil
	}
	rows, cols := nWid+1, nLen+1
	if cols > s.MaxNodes || rows > s.MaxNodes/cols {
		v := &laminate.ValidationError{}
		if rows <= math.MaxInt/cols {
			v.Add(fmt.Sprintf("mesh has %d nodes, the limit is %d", rows*cols, s.MaxNodes))
		} else {
			v.Add(fmt.Sprintf("mesh of %d × %d cells is too large, the limit is %d nodes", nLen, nWid, s.MaxNodes))
		}
		return v
	}
	return nil
}

type panelResponse struct {
	RunID int64 `json:"run_id,omitempty"`
	*panel.Result
}

func (s *Server) AnalyzePanel(w http.ResponseWriter, r *http.Request) {
	a, err := s.analyze(w, r)
	if err != nil {
		fail(w, err)
		return
	}

	resp := panelResponse{Result: a.Result}
	if s.repo != nil {
		id, err := s.repo.SaveRun(r.Context(), store.NewRun(a.Result))
		if err != nil {
			log.Printf("save run %q: %v", a.Result.Name, err)
		} else {
			resp.RunID = id
		}
	}
	if subject, ok := r.Context().Value(subjectKey).(string); ok {
		log.Printf("panel %q solved for %s", a.Result.Name, subject)
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) PanelReport(w http.ResponseWriter, r *http.Request) {
	a, err := s.analyze(w, r)
	if err != nil {
		fail(w, err)
		return
	}

	doc := report.PanelDocument(a)

	dir, err := os.MkdirTemp("", "gopanel-report")
	if err != nil {
		fail(w, err)
		return
	}
	defer os.RemoveAll(dir)
	img := filepath.Join(dir, "mesh.png")
	if err := diagram.ExportMeshDiagram(report.MeshDiagram(a, 0), img); err != nil {
		log.Printf("mesh diagram: %v", err)
	} else {
		doc.Images = append(doc.Images, img)
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", "attachment; filename=\"panel-report.pdf\"")
	if err := report.WritePDF(w, doc); err != nil {
		log.Printf("report generation: %v", err)
		http.Error(w, "Report generation error", http.StatusInternalServerError)
	}
}

func (s *Server) PanelExport(w http.ResponseWriter, r *http.Request) {
	a, err := s.analyze(w, r)
	if err != nil {
		fail(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", "attachment; filename=\"panel.xlsx\"")
	if err := report.WriteWorkbook(w, report.PanelTables(a)); err != nil {
		log.Printf("workbook generation: %v", err)
		http.Error(w, "Export error", http.StatusInternalServerError)
	}
}

func (s *Server) ListRuns(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			writeError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = n
	}
	runs, err := s.repo.ListRuns(r.Context(), limit)
	if err != nil {
		fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, runs)
}
