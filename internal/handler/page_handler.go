package handler

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/ahmadqo/campus-console/internal/confirm"
	"github.com/ahmadqo/campus-console/internal/form"
	"github.com/ahmadqo/campus-console/internal/listview"
	"github.com/ahmadqo/campus-console/internal/logger"
	"github.com/ahmadqo/campus-console/internal/model"
	"github.com/ahmadqo/campus-console/internal/resource"
	"github.com/ahmadqo/campus-console/internal/service"
)

const maxUploadMemory = 12 << 20

// mediaView is the image slot shown under an edit form.
type mediaView struct {
	Slot  string
	Label string
}

var formMedia = map[string]*mediaView{
	resource.Users:            {Slot: "user-photo", Label: "Photo"},
	resource.Students:         {Slot: "student-photo", Label: "Photo"},
	resource.WhiteboardThemes: {Slot: "whiteboard-theme", Label: "Header image"},
}

type formView struct {
	Def         *resource.Definition
	Mode        string
	ID          string
	Draft       model.Record
	Touched     []string
	FieldErrors form.Errors
	Err         string
	Notice      string
	Data        *service.PageData
	Media       map[string]*mediaView
}

type confirmView struct {
	Def    *resource.Definition
	Target confirm.Target
	Query  string
	Page   int
}

type documentsView struct {
	TeacherID string
	Documents []model.Record
	Types     []string
}

// PageHandler serves the server-rendered console.
type PageHandler struct {
	resources service.ResourceService
	teachers  service.TeacherService
	results   service.ExamResultService
	media     service.MediaService
	render    *Renderer
}

func NewPageHandler(
	resources service.ResourceService,
	teachers service.TeacherService,
	results service.ExamResultService,
	media service.MediaService,
	render *Renderer,
) *PageHandler {
	return &PageHandler{
		resources: resources,
		teachers:  teachers,
		results:   results,
		media:     media,
		render:    render,
	}
}

func listState(r *http.Request) *listview.State {
	page, _ := strconv.Atoi(r.FormValue("page"))
	if page < 1 {
		page = 1
	}
	return &listview.State{Query: strings.TrimSpace(r.FormValue("q")), Page: page}
}

func (h *PageHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	h.render.Render(w, r, http.StatusOK, "dashboard.html", view{Title: "Dashboard"})
}

// List renders one page of a resource: GET /pages/{resource}?q=&page=
func (h *PageHandler) List(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "resource")
	data, err := h.resources.LoadPage(r.Context(), name, listState(r))
	if err != nil {
		h.render.Fail(w, r, err, "Failed to load page")
		return
	}
	h.render.Render(w, r, http.StatusOK, "list.html", view{
		Title: data.Def.Title,
		Flash: r.URL.Query().Get("msg"),
		Data:  data,
	})
}

// New opens the editor on a blank record with the next id filled in.
func (h *PageHandler) New(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "resource")
	ctx := r.Context()

	data, err := h.resources.LoadPage(ctx, name, nil)
	if err != nil {
		h.render.Fail(w, r, err, "Failed to load page")
		return
	}
	draft, err := h.resources.NewDraft(ctx, name, data.Records)
	if err != nil {
		h.render.Fail(w, r, err, data.Def.FetchFailed())
		return
	}
	ed, err := h.resources.Editor(name, data)
	if err != nil {
		h.render.Fail(w, r, err, "Failed to open editor")
		return
	}
	ed.OpenAdd(draft)
	h.renderForm(w, r, http.StatusOK, data, ed, "")
}

// Edit opens the editor on an existing record, taken from the loaded list
// when present and fetched otherwise.
func (h *PageHandler) Edit(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "resource")
	id := chi.URLParam(r, "id")
	ctx := r.Context()

	data, err := h.resources.LoadPage(ctx, name, nil)
	if err != nil {
		h.render.Fail(w, r, err, "Failed to load page")
		return
	}

	rec := findRecord(data.Records, data.Def.IDField, id)
	if rec == nil {
		rec, err = h.resources.Record(ctx, name, id)
		if err != nil {
			h.render.Fail(w, r, err, data.Def.FetchFailed())
			return
		}
	}

	ed, err := h.resources.Editor(name, data)
	if err != nil {
		h.render.Fail(w, r, err, "Failed to open editor")
		return
	}
	ed.OpenEdit(id, rec)
	h.renderForm(w, r, http.StatusOK, data, ed, "")
}

// Save handles both editor buttons. "apply" runs the derivations for the
// changed fields and re-renders; "save" also validates and submits.
func (h *PageHandler) Save(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "resource")
	ctx := r.Context()

	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form", http.StatusBadRequest)
		return
	}

	data, err := h.resources.LoadPage(ctx, name, nil)
	if err != nil {
		h.render.Fail(w, r, err, "Failed to load page")
		return
	}
	sub := parseSubmission(data.Def, r)

	ed, err := h.resources.Editor(name, data)
	if err != nil {
		h.render.Fail(w, r, err, "Failed to open editor")
		return
	}
	if sub.mode == "edit" {
		ed.OpenEdit(sub.id, sub.prev)
	} else {
		ed.OpenAdd(sub.prev)
	}
	ed.MarkTouched(sub.touched...)

	notice := ""
	if err := ed.Apply(ctx, sub.changes, sub.order); err != nil {
		logger.Warn().Err(err).Str("resource", name).Msg("derived fields incomplete")
		notice = "Some dependent fields could not be filled in automatically."
	}

	if sub.action != "save" {
		h.renderForm(w, r, http.StatusOK, data, ed, notice)
		return
	}

	if err := h.resources.Save(ctx, name, ed); err != nil {
		status := http.StatusUnprocessableEntity
		if !errors.Is(err, form.ErrValidation) {
			status = statusFor(err)
		}
		h.renderForm(w, r, status, data, ed, notice)
		return
	}

	msg := data.Def.Singular + " saved"
	http.Redirect(w, r, "/pages/"+name+"?msg="+url.QueryEscape(msg), http.StatusSeeOther)
}

func (h *PageHandler) renderForm(w http.ResponseWriter, r *http.Request, status int, data *service.PageData, ed *form.Editor, notice string) {
	mode := "add"
	if ed.State() == form.OpenEdit {
		mode = "edit"
	}
	h.render.Render(w, r, status, "form.html", view{
		Title: data.Def.Title,
		Data: &formView{
			Def:         data.Def,
			Mode:        mode,
			ID:          ed.EditID(),
			Draft:       ed.Draft(),
			Touched:     ed.TouchedFields(),
			FieldErrors: ed.FieldErrors(),
			Err:         ed.Err(),
			Notice:      notice,
			Data:        data,
			Media:       formMedia,
		},
	})
}

// ConfirmDelete shows the confirmation step; nothing is sent yet.
func (h *PageHandler) ConfirmDelete(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "resource")
	id := chi.URLParam(r, "id")

	def, err := h.resources.Catalog().Get(name)
	if err != nil {
		h.render.Fail(w, r, err, "Unknown section")
		return
	}

	var guard confirm.Guard
	label := id
	if data, err := h.resources.LoadPage(r.Context(), name, nil); err == nil && def.LabelField != "" {
		if rec := findRecord(data.Records, def.IDField, id); rec != nil && rec.Has(def.LabelField) {
			label = fmt.Sprintf("%s (%s)", rec.String(def.LabelField), id)
		}
	}
	guard.Request(id, label)
	target, _ := guard.Pending()

	state := listState(r)
	h.render.Render(w, r, http.StatusOK, "confirm.html", view{
		Title: "Delete " + def.Singular,
		Data:  &confirmView{Def: def, Target: target, Query: state.Query, Page: state.Page},
	})
}

// Delete issues the confirmed delete and renders the list pruned locally.
func (h *PageHandler) Delete(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "resource")
	id := chi.URLParam(r, "id")
	ctx := r.Context()

	state := listState(r)
	data, err := h.resources.LoadPage(ctx, name, state)
	if err != nil {
		h.render.Fail(w, r, err, "Failed to load page")
		return
	}

	v := view{Title: data.Def.Title, Data: data}
	records, err := h.resources.Delete(ctx, name, id, data.Records)
	if err != nil {
		v.Error = messageFor(err, data.Def.DeleteFailed())
	} else {
		v.Flash = data.Def.Singular + " deleted"
	}
	data.Records = records
	data.Page = state.Apply(records, data.Def.SearchFields(), data.Def.PageSize)

	h.render.Render(w, r, http.StatusOK, "list.html", v)
}

func (h *PageHandler) Documents(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	docs, err := h.teachers.Documents(r.Context(), id)
	v := view{Title: "Teacher documents"}
	if err != nil {
		v.Error = messageFor(err, "Failed to fetch documents")
		docs = []model.Record{}
	}
	v.Flash = r.URL.Query().Get("msg")
	v.Data = &documentsView{TeacherID: id, Documents: docs, Types: service.DocumentTypes}
	h.render.Render(w, r, http.StatusOK, "documents.html", v)
}

func (h *PageHandler) UploadDocument(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	filename, data, err := readUpload(r, "document")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := h.teachers.UploadDocument(r.Context(), id, r.FormValue("doc_type"), filename, data); err != nil {
		h.render.Fail(w, r, err, "Failed to upload document")
		return
	}
	http.Redirect(w, r, "/pages/teachers/"+url.PathEscape(id)+"/documents?msg=Document+uploaded", http.StatusSeeOther)
}

func (h *PageHandler) DownloadDocument(w http.ResponseWriter, r *http.Request) {
	blob, err := h.teachers.DownloadDocument(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "docID"))
	if err != nil {
		h.render.Fail(w, r, err, "Failed to download document")
		return
	}
	name := blob.Filename
	if name == "" {
		name = chi.URLParam(r, "docID") + blob.Extension()
	}
	sendFile(w, blob.ContentType, name, blob.Data, true)
}

func (h *PageHandler) DeleteDocument(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.teachers.DeleteDocument(r.Context(), id, chi.URLParam(r, "docID")); err != nil {
		h.render.Fail(w, r, err, "Failed to delete document")
		return
	}
	http.Redirect(w, r, "/pages/teachers/"+url.PathEscape(id)+"/documents?msg=Document+deleted", http.StatusSeeOther)
}

func (h *PageHandler) TeacherPDF(w http.ResponseWriter, r *http.Request) {
	pdf, name, err := h.teachers.ProfilePDF(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.render.Fail(w, r, err, "Failed to export teacher profile")
		return
	}
	sendFile(w, "application/pdf", name, pdf, true)
}

func (h *PageHandler) ResultPDF(w http.ResponseWriter, r *http.Request) {
	pdf, name, err := h.results.ResultPDF(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.render.Fail(w, r, err, "Failed to export result")
		return
	}
	sendFile(w, "application/pdf", name, pdf, true)
}

// Media streams an attachment image; teacher signatures go through the
// signature cache.
func (h *PageHandler) Media(w http.ResponseWriter, r *http.Request) {
	slot, id := chi.URLParam(r, "slot"), chi.URLParam(r, "id")
	ctx := r.Context()

	var err error
	var data []byte
	var contentType string
	if slot == "teacher-sign" {
		sig, ferr := h.teachers.Signature(ctx, id)
		if err = ferr; err == nil {
			data, contentType = sig.Data, sig.ContentType
		}
	} else {
		blob, ferr := h.media.Fetch(ctx, slot, id)
		if err = ferr; err == nil {
			data, contentType = blob.Data, blob.ContentType
		}
	}
	if err != nil {
		http.Error(w, messageFor(err, "Image unavailable"), statusFor(err))
		return
	}
	w.Header().Set("Cache-Control", "private, max-age=60")
	sendFile(w, contentType, "", data, false)
}

func (h *PageHandler) UploadMedia(w http.ResponseWriter, r *http.Request) {
	slot, id := chi.URLParam(r, "slot"), chi.URLParam(r, "id")
	ctx := r.Context()

	filename, data, err := readUpload(r, "file")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	back := "/"
	if slot == "teacher-sign" {
		err = h.teachers.UploadSignature(ctx, id, filename, data)
		back = "/pages/teachers/" + url.PathEscape(id) + "/documents"
	} else {
		err = h.media.Upload(ctx, slot, id, filename, data)
		if ms, ok := service.Slots[slot]; ok {
			back = "/pages/" + ms.Resource + "/" + url.PathEscape(id) + "/edit"
		}
	}
	if err != nil {
		h.render.Fail(w, r, err, "Failed to upload file")
		return
	}
	http.Redirect(w, r, back, http.StatusSeeOther)
}

// VerifyResult is the public page a result PDF's QR code points at.
func (h *PageHandler) VerifyResult(w http.ResponseWriter, r *http.Request) {
	res, err := h.results.Verify(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.render.Fail(w, r, err, "Verification is unavailable, try again later")
		return
	}
	status := http.StatusOK
	if !res.IsValid {
		status = http.StatusNotFound
	}
	h.render.Render(w, r, status, "verify.html", view{Title: "Verify result", Data: res})
}

func findRecord(records []model.Record, idField, id string) model.Record {
	for _, rec := range records {
		if rec.ID(idField) == id {
			return rec
		}
	}
	return nil
}

func readUpload(r *http.Request, field string) (string, []byte, error) {
	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		return "", nil, fmt.Errorf("invalid upload: %w", err)
	}
	file, header, err := r.FormFile(field)
	if err != nil {
		return "", nil, fmt.Errorf("file %q is required", field)
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxUploadMemory+1))
	if err != nil {
		return "", nil, fmt.Errorf("read upload: %w", err)
	}
	return header.Filename, data, nil
}

func sendFile(w http.ResponseWriter, contentType, filename string, data []byte, attachment bool) {
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	if attachment && filename != "" {
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	}
	_, _ = w.Write(data)
}
