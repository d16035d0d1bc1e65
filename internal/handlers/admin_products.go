package handlers

import (
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/gorilla/csrf"
	"github.com/nfnt/resize"
	"github.com/zeyadattiaa/TradeEngine/internal/models"
	"github.com/zeyadattiaa/TradeEngine/internal/store"
)

func (h *AdminHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.Store.ListProducts("", "")
	if err != nil {
		http.Error(w, "Error fetching products", http.StatusInternalServerError)
		return
	}

	tmpl := h.Templates.Get("admin_products.html")
	if tmpl == nil {
		http.Error(w, "Template not found", http.StatusInternalServerError)
		return
	}

	session, _ := h.SessionStore.Get(r, sessionName)
	data := map[string]interface{}{
		"Products":  products,
		"CsrfField": csrf.TemplateField(r),
		"Flashes":   GetFlash(session),
	}
	session.Save(r, w)
	tmpl.Execute(w, data)
}

func (h *AdminHandler) NewProductForm(w http.ResponseWriter, r *http.Request) {
	tmpl := h.Templates.Get("admin_product_form.html")
	if tmpl == nil {
		http.Error(w, "Template not found", http.StatusInternalServerError)
		return
	}
	session, _ := h.SessionStore.Get(r, sessionName)
	data := map[string]interface{}{
		"Categories": models.Categories,
		"CsrfField":  csrf.TemplateField(r),
		"Flashes":    GetFlash(session),
	}
	session.Save(r, w)
	tmpl.Execute(w, data)
}

func (h *AdminHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	session, _ := h.SessionStore.Get(r, sessionName)
	defer session.Save(r, w)

	if err := r.ParseMultipartForm(10 << 20); err != nil {
		session.AddFlash(FlashMessage{Type: "error", Message: "File too large. Max 10MB."})
		http.Redirect(w, r, "/admin/products/new", http.StatusSeeOther)
		return
	}

	product, errs := productFromForm(r)
	if len(errs) > 0 {
		for _, msg := range errs {
			session.AddFlash(FlashMessage{Type: "error", Message: msg})
		}
		http.Redirect(w, r, "/admin/products/new", http.StatusSeeOther)
		return
	}

	// Image is optional on create; products without one keep a placeholder.
	if filename, err := h.saveProductImage(r); err != nil {
		session.AddFlash(FlashMessage{Type: "error", Message: err.Error()})
		http.Redirect(w, r, "/admin/products/new", http.StatusSeeOther)
		return
	} else if filename != "" {
		product.ImageURL = "/static/uploads/" + filename
	}

	if err := h.Store.CreateProduct(product); err != nil {
		session.AddFlash(FlashMessage{Type: "error", Message: "Error saving product to database."})
		http.Redirect(w, r, "/admin/products/new", http.StatusSeeOther)
		return
	}

	session.AddFlash(FlashMessage{Type: "success", Message: "Product added successfully!"})
	http.Redirect(w, r, "/admin/products", http.StatusSeeOther)
}

func (h *AdminHandler) EditProductForm(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		http.Error(w, "Invalid product ID", http.StatusBadRequest)
		return
	}

	product, err := h.Store.GetProductByID(id)
	if err != nil {
		http.Error(w, "Product not found", http.StatusNotFound)
		return
	}

	tmpl := h.Templates.Get("admin_product_form.html")
	if tmpl == nil {
		http.Error(w, "Template not found", http.StatusInternalServerError)
		return
	}

	session, _ := h.SessionStore.Get(r, sessionName)
	data := map[string]interface{}{
		"Product":    product,
		"Categories": models.Categories,
		"CsrfField":  csrf.TemplateField(r),
		"Flashes":    GetFlash(session),
	}
	session.Save(r, w)
	tmpl.Execute(w, data)
}

func (h *AdminHandler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	session, _ := h.SessionStore.Get(r, sessionName)
	defer session.Save(r, w)

	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		session.AddFlash(FlashMessage{Type: "error", Message: "Invalid product ID."})
		http.Redirect(w, r, "/admin/products", http.StatusSeeOther)
		return
	}
	editURL := fmt.Sprintf("/admin/products/%d/edit", id)

	if err := r.ParseMultipartForm(10 << 20); err != nil {
		session.AddFlash(FlashMessage{Type: "error", Message: "File too large. Max 10MB."})
		http.Redirect(w, r, editURL, http.StatusSeeOther)
		return
	}

	product, errs := productFromForm(r)
	if len(errs) > 0 {
		for _, msg := range errs {
			session.AddFlash(FlashMessage{Type: "error", Message: msg})
		}
		http.Redirect(w, r, editURL, http.StatusSeeOther)
		return
	}
	product.ID = id

	if err := h.Store.UpdateProduct(product); err != nil {
		if err == store.ErrNotFound {
			session.AddFlash(FlashMessage{Type: "error", Message: "Product not found."})
		} else {
			session.AddFlash(FlashMessage{Type: "error", Message: "Error updating product."})
		}
		http.Redirect(w, r, "/admin/products", http.StatusSeeOther)
		return
	}

	if filename, err := h.saveProductImage(r); err != nil {
		session.AddFlash(FlashMessage{Type: "error", Message: err.Error()})
		http.Redirect(w, r, editURL, http.StatusSeeOther)
		return
	} else if filename != "" {
		h.Store.UpdateProductImage(id, "/static/uploads/"+filename)
	}

	session.AddFlash(FlashMessage{Type: "success", Message: "Product updated successfully!"})
	http.Redirect(w, r, "/admin/products", http.StatusSeeOther)
}

func (h *AdminHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	session, _ := h.SessionStore.Get(r, sessionName)
	defer session.Save(r, w)

	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		session.AddFlash(FlashMessage{Type: "error", Message: "Invalid product ID."})
		http.Redirect(w, r, "/admin/products", http.StatusSeeOther)
		return
	}

	if err := h.Store.DeleteProduct(id); err != nil {
		session.AddFlash(FlashMessage{Type: "error", Message: "Error deleting product."})
		http.Redirect(w, r, "/admin/products", http.StatusSeeOther)
		return
	}

	session.AddFlash(FlashMessage{Type: "success", Message: "Product deleted successfully!"})
	http.Redirect(w, r, "/admin/products", http.StatusSeeOther)
}

func productFromForm(r *http.Request) (*models.Product, map[string]string) {
	name := strings.TrimSpace(r.FormValue("name"))
	priceStr := r.FormValue("price")
	category := r.FormValue("category")
	stockStr := r.FormValue("stock_quantity")

	errs := make(map[string]string)
	if name == "" {
		errs["name"] = "Name is required."
	}
	price, err := strconv.ParseFloat(priceStr, 64)
	if err != nil {
		errs["price"] = "Invalid price format."
	} else if price < 0 {
		errs["price"] = "Price cannot be negative."
	}
	if !models.ValidCategory(category) {
		errs["category"] = "Invalid category selected."
	}
	stock, err := strconv.Atoi(stockStr)
	if err != nil || stock < 0 {
		errs["stock"] = "Stock must be a non-negative number."
	}

	details := make(map[string]string)
	for key, values := range r.Form {
		if after, ok := strings.CutPrefix(key, "detail_"); ok && len(values) > 0 && values[0] != "" {
			details[after] = values[0]
		}
	}

	if len(errs) > 0 {
		return nil, errs
	}
	return &models.Product{
		Name:          name,
		Price:         price,
		Category:      category,
		StockQuantity: stock,
		Details:       details,
	}, nil
}

// saveProductImage decodes an optional uploaded image, scales it down to
// 800px wide, and writes it under static/uploads with a uuid filename.
// Returns the empty string when no file was uploaded.
func (h *AdminHandler) saveProductImage(r *http.Request) (string, error) {
	file, header, err := r.FormFile("image")
	if err != nil {
		return "", nil
	}
	defer file.Close()

	var img image.Image
	switch strings.ToLower(filepath.Ext(header.Filename)) {
	case ".png":
		img, err = png.Decode(file)
	case ".jpeg", ".jpg":
		img, err = jpeg.Decode(file)
	default:
		return "", fmt.Errorf("Unsupported image format. Only PNG, JPG, JPEG are allowed.")
	}
	if err != nil {
		return "", fmt.Errorf("Failed to decode image.")
	}

	resized := resize.Resize(800, 0, img, resize.Lanczos3)
	filename := fmt.Sprintf("%s.jpg", uuid.New().String())
	uploadPath := filepath.Join("static/uploads", filename)

	out, err := os.Create(uploadPath)
	if err != nil {
		return "", fmt.Errorf("Error saving image file.")
	}
	defer out.Close()

	if err := jpeg.Encode(out, resized, &jpeg.Options{Quality: 80}); err != nil {
		return "", fmt.Errorf("Error encoding image.")
	}
	return filename, nil
}
