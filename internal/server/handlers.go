package server

import (
	"encoding/json"
	"io"
	"mime"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/rrgraph/pkg/buildinfo"
	rrerrors "github.com/matzehuels/rrgraph/pkg/errors"
	sectorio "github.com/matzehuels/rrgraph/pkg/io"
	"github.com/matzehuels/rrgraph/pkg/layout"
	"github.com/matzehuels/rrgraph/pkg/pipeline"
	"github.com/matzehuels/rrgraph/pkg/rrg"
)

// request is the JSON body of every POST endpoint.
type request struct {
	Sectors json.RawMessage  `json:"sectors"`
	Options pipeline.Options `json:"options"`
}

// contentTypes maps output formats to response media types.
var contentTypes = map[string]string{
	pipeline.FormatSVG:     "image/svg+xml",
	pipeline.FormatPNG:     "image/png",
	pipeline.FormatPDF:     "application/pdf",
	pipeline.FormatJSON:    "application/json",
	pipeline.FormatMsgpack: "application/msgpack",
}

func isMsgpack(r *http.Request) bool {
	mt, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return mt == "application/msgpack" || mt == "application/x-msgpack"
}

// decodeRequest reads sectors and options from the body and fills unset
// options from the server configuration.
func (s *Server) decodeRequest(w http.ResponseWriter, r *http.Request) ([]rrg.Sector, pipeline.Options, error) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.cfg.Server.MaxBodyBytes))
	if err != nil {
		return nil, pipeline.Options{}, err
	}

	var (
		sectors []rrg.Sector
		opts    pipeline.Options
	)
	if isMsgpack(r) {
		sectors, err = sectorio.DecodeBytes(body, sectorio.FormatMsgpack)
	} else {
		var req request
		if err := json.Unmarshal(body, &req); err != nil {
			return nil, opts, rrerrors.Wrap(rrerrors.ErrCodeInvalidInput, err, "decode request body")
		}
		if len(req.Sectors) == 0 {
			return nil, opts, rrerrors.New(rrerrors.ErrCodeInvalidInput, "sectors is required")
		}
		opts = req.Options
		sectors, err = sectorio.DecodeBytes(req.Sectors, sectorio.FormatJSON)
	}
	if err != nil {
		return nil, opts, err
	}

	opts.Logger = s.log
	s.cfg.ApplyLayout(&opts)
	return sectors, opts, nil
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, struct {
		Status string         `json:"status"`
		Build  buildinfo.Info `json:"build"`
	}{"ok", buildinfo.Get()})
}

type layoutResponse struct {
	Hash   string        `json:"hash"`
	Cached bool          `json:"cached"`
	Layout layout.Layout `json:"layout"`
}

func (s *Server) handleLayout(w http.ResponseWriter, r *http.Request) {
	sectors, opts, err := s.decodeRequest(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	l, hit, err := s.runner.GenerateLayoutWithCacheInfo(r.Context(), sectors, opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	hash := pipeline.HashSectors(sectors)
	w.Header().Set("X-Cache", cacheHeader(hit))
	w.Header().Set("X-Sectors-Hash", hash)
	writeJSON(w, http.StatusOK, layoutResponse{Hash: hash, Cached: hit, Layout: l})
}

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	format := chi.URLParam(r, "format")
	if err := pipeline.ValidateFormat(format); err != nil {
		s.writeError(w, r, err)
		return
	}

	sectors, opts, err := s.decodeRequest(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.cfg.ApplyRender(&opts)
	opts.Formats = []string{format}

	res, err := s.runner.Execute(r.Context(), sectors, opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", contentTypes[format])
	w.Header().Set("X-Cache", cacheHeader(res.CacheInfo.LayoutHit && res.CacheInfo.RenderHit))
	w.Header().Set("X-Sectors-Hash", res.SectorsHash)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(res.Artifacts[format])
}

// classification is one row of the classify response.
type classification struct {
	ID            string       `json:"id"`
	Name          string       `json:"name"`
	Quadrant      rrg.Quadrant `json:"quadrant"`
	Label         string       `json:"label"`
	Color         string       `json:"color"`
	Ratio         float64      `json:"rs_ratio"`
	Momentum      float64      `json:"rs_momentum"`
	Heading       float64      `json:"heading_degrees"`
	ChangePercent float64      `json:"change_percent"`
}

type classifyResponse struct {
	Sectors []classification `json:"sectors"`
	Counts  map[string]int   `json:"counts"`
}

func (s *Server) handleClassify(w http.ResponseWriter, r *http.Request) {
	sectors, _, err := s.decodeRequest(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if len(sectors) == 0 {
		s.writeError(w, r, rrerrors.InsufficientData())
		return
	}
	writeJSON(w, http.StatusOK, classify(sectors))
}

func classify(sectors []rrg.Sector) classifyResponse {
	resp := classifyResponse{
		Sectors: make([]classification, len(sectors)),
		Counts:  make(map[string]int, len(rrg.Quadrants)),
	}
	for _, q := range rrg.Quadrants {
		resp.Counts[q.String()] = 0
	}
	for i, sec := range sectors {
		q := sec.Quadrant()
		resp.Sectors[i] = classification{
			ID:            sec.ID,
			Name:          sec.DisplayName(),
			Quadrant:      q,
			Label:         q.Label(),
			Color:         q.Color(),
			Ratio:         sec.Ratio,
			Momentum:      sec.Momentum,
			Heading:       sec.Heading(),
			ChangePercent: sec.ChangePercent,
		}
		resp.Counts[q.String()]++
	}
	return resp
}

func cacheHeader(hit bool) string {
	if hit {
		return "HIT"
	}
	return "MISS"
}
