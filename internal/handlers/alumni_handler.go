package handlers

import (
	"bytes"
	"errors"
	"net/http"
	"net/url"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/SAP-F-2025/alumni-service/internal/directory"
	"github.com/SAP-F-2025/alumni-service/internal/models"
	"github.com/SAP-F-2025/alumni-service/internal/services"
	"github.com/SAP-F-2025/alumni-service/internal/utils"
)

const (
	xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	exportFilename  = "alumni.xlsx"
)

// AlumniListResponse is the paginated listing envelope
type AlumniListResponse struct {
	Count         int64                   `json:"count"`
	Next          *string                 `json:"next"`
	Previous      *string                 `json:"previous"`
	Results       []models.AlumniListItem `json:"results"`
	FilterOptions directory.FilterOptions `json:"filter_options"`
	Stats         directory.Stats         `json:"stats"`
}

// AlumniDirectoryResponse is returned when pagination is disabled
type AlumniDirectoryResponse struct {
	Results       []models.AlumniListItem `json:"results"`
	FilterOptions directory.FilterOptions `json:"filter_options"`
	Stats         directory.Stats         `json:"stats"`
}

type AlumniHandler struct {
	BaseHandler
	alumniService services.AlumniService
	exportService services.ExportService
}

func NewAlumniHandler(alumniService services.AlumniService, exportService services.ExportService, logger utils.Logger) *AlumniHandler {
	return &AlumniHandler{
		BaseHandler:   NewBaseHandler(logger),
		alumniService: alumniService,
		exportService: exportService,
	}
}

// ListAlumni returns the filtered directory with facet options and stats
// @Summary List alumni
// @Tags alumni
// @Produce json
// @Param search query string false "Matches name, role, company or skills"
// @Param batch query string false "Exact batch"
// @Param department query string false "Department, case-insensitive"
// @Param company query string false "Company, case-insensitive"
// @Param industry query string false "Industry, case-insensitive"
// @Param available query string false "true, 1 or yes"
// @Param page query string false "Page number or last"
// @Success 200 {object} AlumniListResponse
// @Failure 404 {object} ErrorResponse
// @Router /alumni/ [get]
func (h *AlumniHandler) ListAlumni(c *gin.Context) {
	query := directory.ParseQuery(c.Request.URL.Query())
	h.LogRequest(c, "Listing alumni",
		"search", query.Search,
		"page", c.Query(directory.ParamPage),
		"page_size", h.alumniService.PageSize(),
	)

	result, err := h.alumniService.List(c.Request.Context(), query, c.Query(directory.ParamPage))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	if result.Page == nil {
		c.JSON(http.StatusOK, AlumniDirectoryResponse{
			Results:       result.Results,
			FilterOptions: result.Aggregates.FilterOptions,
			Stats:         result.Aggregates.Stats,
		})
		return
	}

	response := AlumniListResponse{
		Count:         result.Page.TotalItems,
		Results:       result.Results,
		FilterOptions: result.Aggregates.FilterOptions,
		Stats:         result.Aggregates.Stats,
	}
	if result.Page.HasNext() {
		response.Next = pageURL(c, result.Page.Number+1)
	}
	if result.Page.HasPrevious() {
		response.Previous = pageURL(c, result.Page.Number-1)
	}

	c.JSON(http.StatusOK, response)
}

// ExportAlumni streams the filtered directory as a spreadsheet
// @Summary Export alumni as XLSX
// @Tags alumni
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Success 200 {file} file
// @Router /alumni/export [get]
func (h *AlumniHandler) ExportAlumni(c *gin.Context) {
	query := directory.ParseQuery(c.Request.URL.Query())
	h.LogRequest(c, "Exporting alumni", "search", query.Search)

	var buf bytes.Buffer
	if err := h.exportService.ExportXLSX(c.Request.Context(), query, &buf); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+exportFilename+`"`)
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}

// GetAlumni returns the full projection of one record
// @Summary Get alumni
// @Tags alumni
// @Produce json
// @Param id path uint true "Alumni ID"
// @Success 200 {object} models.AlumniResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /alumni/{id}/ [get]
func (h *AlumniHandler) GetAlumni(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	alumni, err := h.alumniService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, alumni)
}

// CreateAlumni adds a record to the directory
// @Summary Create alumni
// @Tags alumni
// @Accept json
// @Produce json
// @Param alumni body services.CreateAlumniRequest true "Alumni data"
// @Success 201 {object} models.AlumniResponse
// @Failure 400 {object} ErrorResponse
// @Router /alumni/ [post]
func (h *AlumniHandler) CreateAlumni(c *gin.Context) {
	var req services.CreateAlumniRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	h.logWrite(c, "Creating alumni")

	alumni, err := h.alumniService.Create(c.Request.Context(), &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, alumni)
}

// UpdateAlumni replaces a record
// @Summary Replace alumni
// @Tags alumni
// @Accept json
// @Produce json
// @Param id path uint true "Alumni ID"
// @Param alumni body services.UpdateAlumniRequest true "Alumni data"
// @Success 200 {object} models.AlumniResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /alumni/{id}/ [put]
func (h *AlumniHandler) UpdateAlumni(c *gin.Context) {
	h.update(c, false)
}

// PatchAlumni changes only the supplied fields
// @Summary Partially update alumni
// @Tags alumni
// @Accept json
// @Produce json
// @Param id path uint true "Alumni ID"
// @Param alumni body services.UpdateAlumniRequest true "Fields to change"
// @Success 200 {object} models.AlumniResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /alumni/{id}/ [patch]
func (h *AlumniHandler) PatchAlumni(c *gin.Context) {
	h.update(c, true)
}

func (h *AlumniHandler) update(c *gin.Context, partial bool) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	var req services.UpdateAlumniRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	h.logWrite(c, "Updating alumni", "alumni_id", id, "partial", partial)

	var (
		alumni *services.AlumniResponse
		err    error
	)
	if partial {
		alumni, err = h.alumniService.Patch(c.Request.Context(), id, &req)
	} else {
		alumni, err = h.alumniService.Update(c.Request.Context(), id, &req)
	}
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, alumni)
}

// DeleteAlumni removes a record
// @Summary Delete alumni
// @Tags alumni
// @Param id path uint true "Alumni ID"
// @Success 204
// @Failure 404 {object} ErrorResponse
// @Router /alumni/{id}/ [delete]
func (h *AlumniHandler) DeleteAlumni(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	h.logWrite(c, "Deleting alumni", "alumni_id", id)

	if err := h.alumniService.Delete(c.Request.Context(), id); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// logWrite records the caller when the write guard identified one
func (h *AlumniHandler) logWrite(c *gin.Context, msg string, args ...any) {
	if actor, err := GetUserIDFromContext(c); err == nil {
		args = append(args, "actor", actor)
	}
	h.LogRequest(c, msg, args...)
}

// pageURL rebuilds the absolute request URL pointing at another page. Page 1
// is addressed without the page parameter.
func pageURL(c *gin.Context, number int) *string {
	scheme := "http"
	if c.Request.TLS != nil {
		scheme = "https"
	}
	if proto := c.GetHeader("X-Forwarded-Proto"); proto != "" {
		scheme = proto
	}

	values := c.Request.URL.Query()
	if number <= 1 {
		values.Del(directory.ParamPage)
	} else {
		values.Set(directory.ParamPage, strconv.Itoa(number))
	}

	u := url.URL{
		Scheme:   scheme,
		Host:     c.Request.Host,
		Path:     c.Request.URL.Path,
		RawQuery: values.Encode(),
	}
	link := u.String()
	return &link
}

func (h *AlumniHandler) handleServiceError(c *gin.Context, err error) {
	var validationErrors services.ValidationErrors
	if errors.As(err, &validationErrors) {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Validation failed",
			Details: validationErrors.Fields(),
		})
		return
	}

	switch {
	case errors.Is(err, services.ErrAlumniNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{
			Message: "Not found.",
		})
	case errors.Is(err, services.ErrInvalidPage):
		c.JSON(http.StatusNotFound, ErrorResponse{
			Message: "Invalid page.",
		})
	default:
		h.LogError(c, err, "Unexpected service error")
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Message: "Internal server error",
		})
	}
}
