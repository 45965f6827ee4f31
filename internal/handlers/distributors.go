package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/hmusa/medcatalog-backend/internal/models"
	"github.com/hmusa/medcatalog-backend/internal/services"
)

type DistributorHandler struct {
	distributors *services.DistributorService
}

func NewDistributorHandler(distributors *services.DistributorService) *DistributorHandler {
	return &DistributorHandler{distributors: distributors}
}

func (h *DistributorHandler) List(w http.ResponseWriter, r *http.Request) {
	filter := models.DistributorFilter{
		Country: r.URL.Query().Get("country"),
		Search:  r.URL.Query().Get("search"),
	}

	ctx, cancel := context.WithTimeout(r.Context(), readTimeout)
	defer cancel()

	distributors, err := h.distributors.List(ctx, filter)
	if err != nil {
		writeError(w, err)
		return
	}

	writeData(w, http.StatusOK, "distributors", distributors)
}

func (h *DistributorHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), readTimeout)
	defer cancel()

	distributor, err := h.distributors.GetByID(ctx, chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeData(w, http.StatusOK, "distributor", distributor)
}

func (h *DistributorHandler) Create(w http.ResponseWriter, r *http.Request) {
	if err := parseMultipart(r); err != nil {
		writeError(w, err)
		return
	}

	input := services.CreateDistributorInput{
		Name:        formValue(r, "name"),
		ContactName: formValue(r, "contact_name"),
		Country:     formValue(r, "country"),
		Email:       formValue(r, "email"),
		Phone:       formValue(r, "phone"),
		Telephone:   formValue(r, "telephone"),
		Address:     formValue(r, "address"),
		Position:    formValue(r, "position"),
		Website:     formValue(r, "website"),
		Description: formValue(r, "description"),
	}

	var err error
	if input.HasAgreement, err = formBool(r, "has_agreement"); err != nil {
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

	distributor, err := h.distributors.Create(ctx, input, imageFile)
	if err != nil {
		writeError(w, err)
		return
	}

	writeData(w, http.StatusCreated, "distributor", distributor)
}

func (h *DistributorHandler) Update(w http.ResponseWriter, r *http.Request) {
	if err := parseMultipart(r); err != nil {
		writeError(w, err)
		return
	}

	patch := models.DistributorPatch{
		Name:        formStringPtr(r, "name"),
		ContactName: formStringPtr(r, "contact_name"),
		Country:     formStringPtr(r, "country"),
		Email:       formStringPtr(r, "email"),
		Phone:       formStringPtr(r, "phone"),
		Telephone:   formStringPtr(r, "telephone"),
		Address:     formStringPtr(r, "address"),
		Position:    formStringPtr(r, "position"),
		Website:     formStringPtr(r, "website"),
		Description: formStringPtr(r, "description"),
	}

	var err error
	if patch.HasAgreement, err = formBoolPtr(r, "has_agreement"); err != nil {
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

	distributor, err := h.distributors.Update(ctx, chi.URLParam(r, "id"), patch, imageFile)
	if err != nil {
		writeError(w, err)
		return
	}

	writeData(w, http.StatusOK, "distributor", distributor)
}

// Delete takes the id from the path like every other delete route.
func (h *DistributorHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), writeTimeout)
	defer cancel()

	if err := h.distributors.Delete(ctx, chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}

	writeMessage(w, http.StatusOK, "distributor deleted successfully")
}
