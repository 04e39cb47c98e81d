package handler

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/sakif/restro-server/internal/auth"
	"github.com/sakif/restro-server/internal/media"
	"github.com/sakif/restro-server/internal/service"
)

// maxUploadBytes caps how much of a multipart body is held in memory while
// parsing; larger file parts spill to temp files.
const maxUploadBytes = 10 << 20 // 10 MB

// PostHandler serves the owner-scoped post CRUD endpoints. All routes sit
// behind RequireAuth, so the identity is always present in the context.
type PostHandler struct {
	postSvc *service.PostService
	store   media.Store
	logger  *slog.Logger
}

// NewPostHandler creates a PostHandler.
func NewPostHandler(postSvc *service.PostService, store media.Store, logger *slog.Logger) *PostHandler {
	return &PostHandler{
		postSvc: postSvc,
		store:   store,
		logger:  logger,
	}
}

// parsePostForm reads the multipart form shared by create and edit:
// title and content are required text fields, price/quantity/category/
// location are optional, and "image" is an optional file part.
//
// If an image is present it is saved through the media store right here and
// the returned PostInput carries its reference; the service layer never
// sees file bytes.
func (h *PostHandler) parsePostForm(w http.ResponseWriter, r *http.Request) (service.PostInput, bool) {
	var in service.PostInput

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		h.logger.Warn("invalid multipart form", slog.String("error", err.Error()))
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: "invalid multipart form",
		})
		return in, false
	}

	in.Title = r.FormValue("title")
	in.Content = r.FormValue("content")
	in.Category = r.FormValue("category")
	in.Location = r.FormValue("location")

	if v := r.FormValue("price"); v != "" {
		price, err := strconv.ParseFloat(v, 64)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, ErrorResponse{
				Error:   "validation_error",
				Message: "price must be a number",
			})
			return in, false
		}
		in.Price = price
	}

	if v := r.FormValue("quantity"); v != "" {
		qty, err := strconv.Atoi(v)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, ErrorResponse{
				Error:   "validation_error",
				Message: "quantity must be an integer",
			})
			return in, false
		}
		in.Quantity = qty
	}

	file, header, err := r.FormFile("image")
	switch err {
	case nil:
		defer file.Close()
		ref, err := h.store.Save(r.Context(), header.Filename, file)
		if err != nil {
			writeError(w, err)
			return in, false
		}
		in.ImageURL = ref
	case http.ErrMissingFile:
		// image is optional
	default:
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: "invalid image upload",
		})
		return in, false
	}

	return in, true
}

// discardUpload deletes an image saved earlier in the same request when the
// create or edit it was meant for failed, so rejected requests don't leave
// orphaned files in the store. Removal failure is only logged — the client
// already has its real error.
func (h *PostHandler) discardUpload(r *http.Request, ref string) {
	if ref == "" {
		return
	}
	if err := h.store.Remove(r.Context(), ref); err != nil {
		h.logger.Warn("discarding upload",
			slog.String("ref", ref),
			slog.String("error", err.Error()),
		)
	}
}

// HandleCreate creates a post for the authenticated user.
//
// HTTP: POST /api/createpost (multipart/form-data)
// 201 with {message, post}; 400 on bad input; 409 when the caller already
// has a post with that title.
func (h *PostHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	id, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, ErrorResponse{
			Error:   "unauthorized",
			Message: "valid authentication required",
		})
		return
	}

	in, ok := h.parsePostForm(w, r)
	if !ok {
		return
	}

	post, err := h.postSvc.Create(r.Context(), id.UserID, in)
	if err != nil {
		h.discardUpload(r, in.ImageURL)
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"message": "Post created successfully.",
		"post":    post,
	})
}

// HandleList returns the caller's posts, newest first.
//
// HTTP: GET /api/posts
func (h *PostHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	id, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, ErrorResponse{
			Error:   "unauthorized",
			Message: "valid authentication required",
		})
		return
	}

	posts, err := h.postSvc.List(r.Context(), id.UserID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, posts)
}

// HandleUpdate edits a post owned by the caller.
//
// HTTP: PUT /api/editpost/{id} (multipart/form-data)
// 200 with {message, post}; 404 if the post doesn't exist; 403 if it
// belongs to someone else. An omitted image keeps the stored one.
func (h *PostHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, ErrorResponse{
			Error:   "unauthorized",
			Message: "valid authentication required",
		})
		return
	}

	postID := r.PathValue("id")
	if postID == "" {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: "post ID is required",
		})
		return
	}

	in, ok := h.parsePostForm(w, r)
	if !ok {
		return
	}

	post, err := h.postSvc.Update(r.Context(), postID, id.UserID, in)
	if err != nil {
		h.discardUpload(r, in.ImageURL)
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Post updated successfully.",
		"post":    post,
	})
}

// HandleDelete removes a post owned by the caller.
//
// HTTP: DELETE /api/deletepost/{id}
// 200 on success; 404/403 mirror HandleUpdate.
func (h *PostHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, ErrorResponse{
			Error:   "unauthorized",
			Message: "valid authentication required",
		})
		return
	}

	postID := r.PathValue("id")
	if postID == "" {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: "post ID is required",
		})
		return
	}

	if err := h.postSvc.Delete(r.Context(), postID, id.UserID); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"message": "Post deleted successfully.",
	})
}
