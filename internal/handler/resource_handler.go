package handler

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ahmadqo/campus-console/internal/form"
	"github.com/ahmadqo/campus-console/internal/logger"
	"github.com/ahmadqo/campus-console/internal/model"
	"github.com/ahmadqo/campus-console/internal/resource"
	"github.com/ahmadqo/campus-console/internal/response"
	"github.com/ahmadqo/campus-console/internal/service"
	"github.com/ahmadqo/campus-console/internal/utils"
)

// DeriveRequest asks for the defaults a set of edits implies.
type DeriveRequest struct {
	Draft   map[string]any    `json:"draft"`
	Changes map[string]string `json:"changes"`
	Touched []string          `json:"touched"`
}

type DeriveResponse struct {
	Draft   model.Record `json:"draft"`
	Touched []string     `json:"touched"`
	Warning string       `json:"warning,omitempty"`
}

type resourceInfo struct {
	Name     string           `json:"name"`
	Title    string           `json:"title"`
	IDField  string           `json:"id_field"`
	Path     string           `json:"path"`
	PageSize int              `json:"page_size"`
	Fields   []resource.Field `json:"fields"`
}

// ResourceHandler is the JSON face of the console: the same list, editor
// and delete flows the pages use.
type ResourceHandler struct {
	resources service.ResourceService
	results   service.ExamResultService
}

func NewResourceHandler(resources service.ResourceService, results service.ExamResultService) *ResourceHandler {
	return &ResourceHandler{resources: resources, results: results}
}

// Catalog godoc
// @Summary      List managed resources
// @Tags         resources
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  response.Response
// @Router       /resources [get]
func (h *ResourceHandler) Catalog(w http.ResponseWriter, r *http.Request) {
	defs := h.resources.Catalog().All()
	out := make([]resourceInfo, 0, len(defs))
	for _, d := range defs {
		out = append(out, resourceInfo{Name: d.Name, Title: d.Title, IDField: d.IDField, Path: d.Path, PageSize: d.PageSize, Fields: d.Fields})
	}
	response.Success(w, "Resources retrieved", out)
}

// List godoc
// @Summary      Search and page a resource
// @Tags         resources
// @Produce      json
// @Security     BearerAuth
// @Param        resource  path   string  true   "Resource name"
// @Param        q         query  string  false  "Search text"
// @Param        page      query  int     false  "Page number"
// @Success      200  {object}  response.PaginatedResponse
// @Failure      404  {object}  response.Response
// @Failure      502  {object}  response.Response
// @Router       /resources/{resource} [get]
func (h *ResourceHandler) List(w http.ResponseWriter, r *http.Request) {
	data, err := h.resources.LoadPage(r.Context(), chi.URLParam(r, "resource"), listState(r))
	if err != nil {
		writeError(w, r, err, "Failed to load records")
		return
	}
	if data.Err != "" {
		response.BadGateway(w, data.Err)
		return
	}
	response.Paginated(w, data.Def.Title+" retrieved", data.Page.Items, response.PaginationFrom(data.Page), data.LookupErrors)
}

// Draft godoc
// @Summary      Blank record with the next id
// @Tags         resources
// @Produce      json
// @Security     BearerAuth
// @Param        resource  path  string  true  "Resource name"
// @Success      200  {object}  response.Response
// @Router       /resources/{resource}/new [get]
func (h *ResourceHandler) Draft(w http.ResponseWriter, r *http.Request) {
	draft, err := h.resources.NewDraft(r.Context(), chi.URLParam(r, "resource"), nil)
	if err != nil {
		writeError(w, r, err, "Failed to prepare record")
		return
	}
	response.Success(w, "Draft prepared", draft)
}

// Get godoc
// @Summary      Fetch one record
// @Tags         resources
// @Produce      json
// @Security     BearerAuth
// @Param        resource  path  string  true  "Resource name"
// @Param        id        path  string  true  "Record id"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /resources/{resource}/{id} [get]
func (h *ResourceHandler) Get(w http.ResponseWriter, r *http.Request) {
	rec, err := h.resources.Record(r.Context(), chi.URLParam(r, "resource"), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err, "Failed to fetch record")
		return
	}
	response.Success(w, "Record retrieved", rec)
}

// Create godoc
// @Summary      Create a record
// @Description  Missing fields take their derived defaults; the id defaults to the next free one.
// @Tags         resources
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        resource  path  string          true  "Resource name"
// @Param        body      body  map[string]any  true  "Record fields"
// @Success      201  {object}  response.Response
// @Failure      400  {object}  response.Response
// @Router       /resources/{resource} [post]
func (h *ResourceHandler) Create(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "resource")
	ctx := r.Context()

	changes, ok := decodeRecord(w, r)
	if !ok {
		return
	}
	data, err := h.resources.LoadPage(ctx, name, nil)
	if err != nil {
		writeError(w, r, err, "Failed to load records")
		return
	}
	draft, err := h.resources.NewDraft(ctx, name, data.Records)
	if err != nil {
		writeError(w, r, err, data.Def.SaveFailed())
		return
	}
	ed, err := h.resources.Editor(name, data)
	if err != nil {
		writeError(w, r, err, data.Def.SaveFailed())
		return
	}
	ed.OpenAdd(draft)
	h.submit(w, r, data.Def, ed, changes, http.StatusCreated)
}

// Update godoc
// @Summary      Update a record
// @Tags         resources
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        resource  path  string          true  "Resource name"
// @Param        id        path  string          true  "Record id"
// @Param        body      body  map[string]any  true  "Changed fields"
// @Success      200  {object}  response.Response
// @Failure      400  {object}  response.Response
// @Router       /resources/{resource}/{id} [put]
func (h *ResourceHandler) Update(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "resource")
	id := chi.URLParam(r, "id")
	ctx := r.Context()

	changes, ok := decodeRecord(w, r)
	if !ok {
		return
	}
	data, err := h.resources.LoadPage(ctx, name, nil)
	if err != nil {
		writeError(w, r, err, "Failed to load records")
		return
	}
	rec := findRecord(data.Records, data.Def.IDField, id)
	if rec == nil {
		if rec, err = h.resources.Record(ctx, name, id); err != nil {
			writeError(w, r, err, data.Def.FetchFailed())
			return
		}
	}
	ed, err := h.resources.Editor(name, data)
	if err != nil {
		writeError(w, r, err, data.Def.SaveFailed())
		return
	}
	ed.OpenEdit(id, rec)
	h.submit(w, r, data.Def, ed, changes, http.StatusOK)
}

func (h *ResourceHandler) submit(w http.ResponseWriter, r *http.Request, def *resource.Definition, ed *form.Editor, changes map[string]string, okStatus int) {
	ctx := r.Context()
	if err := ed.Apply(ctx, changes, fieldOrder(def, changes)); err != nil {
		logger.Warn().Err(err).Str("resource", def.Name).Msg("derived fields incomplete")
	}
	draft := ed.Draft().Clone()

	if err := h.resources.Save(ctx, def.Name, ed); err != nil {
		if errors.Is(err, form.ErrValidation) {
			response.BadRequest(w, ed.Err(), ed.FieldErrors())
			return
		}
		writeError(w, r, err, def.SaveFailed())
		return
	}
	response.JSON(w, okStatus, true, def.Singular+" saved", def.Payload(draft))
}

// Delete godoc
// @Summary      Delete a record
// @Tags         resources
// @Produce      json
// @Security     BearerAuth
// @Param        resource  path  string  true  "Resource name"
// @Param        id        path  string  true  "Record id"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /resources/{resource}/{id} [delete]
func (h *ResourceHandler) Delete(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "resource")
	id := chi.URLParam(r, "id")

	def, err := h.resources.Catalog().Get(name)
	if err != nil {
		writeError(w, r, err, "Unknown resource")
		return
	}
	if _, err := h.resources.Delete(r.Context(), name, id, nil); err != nil {
		writeError(w, r, err, def.DeleteFailed())
		return
	}
	response.Success(w, def.Singular+" deleted", map[string]string{"id": id})
}

// Derive godoc
// @Summary      Preview derived defaults
// @Description  Applies edits to a draft and returns it with dependent fields filled in. Touched fields are never overwritten.
// @Tags         resources
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        resource  path  string         true  "Resource name"
// @Param        body      body  DeriveRequest  true  "Draft and edits"
// @Success      200  {object}  response.Response
// @Router       /resources/{resource}/derive [post]
func (h *ResourceHandler) Derive(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "resource")
	ctx := r.Context()

	var req DeriveRequest
	if err := utils.DecodeJSONLoose(r, &req); err != nil {
		response.BadRequest(w, "Invalid request body", err.Error())
		return
	}
	data, err := h.resources.LoadPage(ctx, name, nil)
	if err != nil {
		writeError(w, r, err, "Failed to load records")
		return
	}
	ed, err := h.resources.Editor(name, data)
	if err != nil {
		writeError(w, r, err, "Failed to open editor")
		return
	}

	ed.OpenAdd(model.Record(req.Draft))
	ed.MarkTouched(req.Touched...)
	out := DeriveResponse{}
	if err := ed.Apply(ctx, req.Changes, fieldOrder(data.Def, req.Changes)); err != nil {
		out.Warning = "Some dependent fields could not be filled in automatically"
	}
	out.Draft = ed.Draft()
	out.Touched = ed.TouchedFields()
	response.Success(w, "Draft updated", out)
}

// Verify godoc
// @Summary      Verify an exam result
// @Tags         public
// @Produce      json
// @Param        id  path  string  true  "Result id"
// @Success      200  {object}  response.Response
// @Router       /verify/results/{id} [get]
func (h *ResourceHandler) Verify(w http.ResponseWriter, r *http.Request) {
	res, err := h.results.Verify(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err, "Verification is unavailable")
		return
	}
	response.Success(w, res.Message, res)
}

func decodeRecord(w http.ResponseWriter, r *http.Request) (map[string]string, bool) {
	var body map[string]any
	if err := utils.DecodeJSONLoose(r, &body); err != nil {
		response.BadRequest(w, "Invalid request body", err.Error())
		return nil, false
	}
	changes := make(map[string]string, len(body))
	for k, v := range body {
		changes[k] = model.Stringify(v)
	}
	return changes, true
}

// fieldOrder lists the changed fields in declaration order so derivations
// run the same way the form lays them out.
func fieldOrder(def *resource.Definition, changes map[string]string) []string {
	order := make([]string, 0, len(changes))
	for _, f := range def.Fields {
		if _, ok := changes[f.Name]; ok {
			order = append(order, f.Name)
		}
	}
	return order
}
