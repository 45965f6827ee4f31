package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/hmusa/medcatalog-backend/internal/models"
	"github.com/hmusa/medcatalog-backend/internal/services"
)

type ManufacturerHandler struct {
	manufacturers *services.ManufacturerService
}

func NewManufacturerHandler(manufacturers *services.ManufacturerService) *ManufacturerHandler {
	return &ManufacturerHandler{manufacturers: manufacturers}
}

func (h *ManufacturerHandler) List(w http.ResponseWriter, r *http.Request) {
	filter := models.ManufacturerFilter{
		Country: r.URL.Query().Get("country"),
		Search:  r.URL.Query().Get("search"),
	}

	ctx, cancel := context.WithTimeout(r.Context(), readTimeout)
	defer cancel()

	manufacturers, err := h.manufacturers.List(ctx, filter)
	if err != nil {
		writeError(w, err)
		return
	}

	writeData(w, http.StatusOK, "manufacturers", manufacturers)
}

func (h *ManufacturerHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), readTimeout)
	defer cancel()

	manufacturer, err := h.manufacturers.GetByID(ctx, chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeData(w, http.StatusOK, "manufacturer", manufacturer)
}

func (h *ManufacturerHandler) Create(w http.ResponseWriter, r *http.Request) {
	if err := parseMultipart(r); err != nil {
		writeError(w, err)
		return
	}

	input := services.CreateManufacturerInput{
		Name:        formValue(r, "name"),
		Country:     formValue(r, "country"),
		ContactName: formValue(r, "contact_name"),
		Email:       formValue(r, "email"),
		Position:    formValue(r, "position"),
		Mobile:      formValue(r, "mobile"),
		Telephone:   formValue(r, "telephone"),
		Website:     formValue(r, "website"),
		Address:     formValue(r, "address"),
		Description: formValue(r, "description"),
	}

	var err error
	if input.Distributors, err = formIDList(r, "distributors"); err != nil {
		writeError(w, err)
		return
	}
	if input.HasAgent, err = formBool(r, "has_agent"); err != nil {
		writeError(w, err)
		return
	}
	imageFile, err := formImage(r)
	if err != nil {
		writeError(w, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), writeTimeout)
	defer cancel()

	manufacturer, err := h.manufacturers.Create(ctx, input, imageFile)
	if err != nil {
		writeError(w, err)
		return
	}

	writeData(w, http.StatusCreated, "manufacturer", manufacturer)
}

func (h *ManufacturerHandler) Update(w http.ResponseWriter, r *http.Request) {
	if err := parseMultipart(r); err != nil {
		writeError(w, err)
		return
	}

	patch := models.ManufacturerPatch{
		Name:        formStringPtr(r, "name"),
		Country:     formStringPtr(r, "country"),
		ContactName: formStringPtr(r, "contact_name"),
		Email:       formStringPtr(r, "email"),
		Position:    formStringPtr(r, "position"),
		Mobile:      formStringPtr(r, "mobile"),
		Telephone:   formStringPtr(r, "telephone"),
		Website:     formStringPtr(r, "website"),
		Address:     formStringPtr(r, "address"),
		Description: formStringPtr(r, "description"),
	}

	var err error
	if patch.Distributors, err = formIDListPtr(r, "distributors"); err != nil {
		writeError(w, err)
		return
	}
	if patch.HasAgent, err = formBoolPtr(r, "has_agent"); err != nil {
		writeError(w, err)
		return
	}
	imageFile, err := formImage(r)
	if err != nil {
		writeError(w, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), writeTimeout)
	defer cancel()

	manufacturer, err := h.manufacturers.Update(ctx, chi.URLParam(r, "id"), patch, imageFile)
	if err != nil {
		writeError(w, err)
		return
	}

	writeData(w, http.StatusOK, "manufacturer", manufacturer)
}

func (h *ManufacturerHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), writeTimeout)
	defer cancel()

	if err := h.manufacturers.Delete(ctx, chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}

	writeMessage(w, http.StatusOK, "manufacturer deleted successfully")
}
