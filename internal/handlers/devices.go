package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/hmusa/medcatalog-backend/internal/models"
	"github.com/hmusa/medcatalog-backend/internal/services"
)

// Timeouts for repository work. Mutations get more headroom because an
// image upload to the external store may be part of the write.
const (
	readTimeout  = 5 * time.Second
	writeTimeout = 30 * time.Second
)

type DeviceHandler struct {
	devices *services.DeviceService
}

func NewDeviceHandler(devices *services.DeviceService) *DeviceHandler {
	return &DeviceHandler{devices: devices}
}

// List returns devices filtered by category, subcategory, and a
// case-insensitive name search.
func (h *DeviceHandler) List(w http.ResponseWriter, r *http.Request) {
	filter := models.DeviceFilter{
		Category:    r.URL.Query().Get("category"),
		Subcategory: r.URL.Query().Get("subcategory"),
		Search:      r.URL.Query().Get("search"),
	}

	ctx, cancel := context.WithTimeout(r.Context(), readTimeout)
	defer cancel()

	devices, err := h.devices.List(ctx, filter)
	if err != nil {
		writeError(w, err)
		return
	}

	writeData(w, http.StatusOK, "devices", devices)
}

func (h *DeviceHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), readTimeout)
	defer cancel()

	device, err := h.devices.GetByID(ctx, chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeData(w, http.StatusOK, "device", device)
}

func (h *DeviceHandler) Create(w http.ResponseWriter, r *http.Request) {
	if err := parseMultipart(r); err != nil {
		writeError(w, err)
		return
	}

	input := services.CreateDeviceInput{
		Name:         formValue(r, "name"),
		Model:        formValue(r, "model"),
		Category:     formValue(r, "category"),
		Subcategory:  formValue(r, "subcategory"),
		Description:  formValue(r, "description"),
		Manufacturer: formValue(r, "manufacturer"),
	}

	var err error
	if input.Price, err = formFloatPtr(r, "price"); err != nil {
		writeError(w, err)
		return
	}
	if input.WholesalePrice, err = formFloatPtr(r, "wholesale_price"); err != nil {
		writeError(w, err)
		return
	}
	if input.Distributors, err = formIDList(r, "distributors"); err != nil {
		writeError(w, err)
		return
	}
	if input.IsRegulatorRegistered, err = formBool(r, "is_regulator_registered"); err != nil {
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

	device, err := h.devices.Create(ctx, input, imageFile)
	if err != nil {
		writeError(w, err)
		return
	}

	writeData(w, http.StatusCreated, "device", device)
}

func (h *DeviceHandler) Update(w http.ResponseWriter, r *http.Request) {
	if err := parseMultipart(r); err != nil {
		writeError(w, err)
		return
	}

	patch := models.DevicePatch{
		Name:         formStringPtr(r, "name"),
		Model:        formStringPtr(r, "model"),
		Category:     formStringPtr(r, "category"),
		Subcategory:  formStringPtr(r, "subcategory"),
		Description:  formStringPtr(r, "description"),
		Manufacturer: formStringPtr(r, "manufacturer"),
	}

	var err error
	if patch.Price, err = formFloatPtr(r, "price"); err != nil {
		writeError(w, err)
		return
	}
	if patch.WholesalePrice, err = formFloatPtr(r, "wholesale_price"); err != nil {
		writeError(w, err)
		return
	}
	if patch.Distributors, err = formIDListPtr(r, "distributors"); err != nil {
		writeError(w, err)
		return
	}
	if patch.IsRegulatorRegistered, err = formBoolPtr(r, "is_regulator_registered"); err != nil {
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

	device, err := h.devices.Update(ctx, chi.URLParam(r, "id"), patch, imageFile)
	if err != nil {
		writeError(w, err)
		return
	}

	writeData(w, http.StatusOK, "device", device)
}

func (h *DeviceHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), writeTimeout)
	defer cancel()

	if err := h.devices.Delete(ctx, chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}

	writeMessage(w, http.StatusOK, "device deleted successfully")
}
