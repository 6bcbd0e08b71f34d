package handlers

import (
	"time"

	"github.com/snackparty/catering-api/internal/api/dto"
	"github.com/snackparty/catering-api/internal/domain"
)

func userResponse(u *domain.User) dto.UserResponse {
	resp := dto.UserResponse{
		ID:       u.ID,
		FullName: u.FullName,
		Email:    u.Email,
		Phone:    u.Phone,
		Role:     u.Role,
	}
	if !u.CreatedAt.IsZero() {
		created := u.CreatedAt
		resp.CreatedAt = &created
	}
	return resp
}

func quotationResponse(q *domain.Quotation) dto.QuotationResponse {
	resp := dto.QuotationResponse{
		ID:              q.ID,
		UserID:          q.UserID,
		EventAddress:    q.EventAddress,
		EventDate:       q.EventDate.Format(time.DateOnly),
		EventTime:       q.EventTime,
		EventType:       q.EventType,
		GuestCount:      q.GuestCount,
		SpecialRequests: q.SpecialRequests,
		Status:          q.Status,
		CreatedAt:       q.CreatedAt,
		Items:           make([]dto.QuotationItemResponse, 0, len(q.Items)),
		Personalization: personalizationResponse(q.Personalization),
	}
	if q.Owner != nil {
		resp.ClientName = &q.Owner.FullName
		resp.ClientEmail = &q.Owner.Email
		resp.ClientPhone = q.Owner.Phone
	}
	for _, it := range q.Items {
		resp.Items = append(resp.Items, dto.QuotationItemResponse{
			ItemID:      it.CatalogItemID,
			Name:        it.Name,
			Description: it.Description,
			Type:        it.Type,
			ImageURL:    it.ImageURL,
			Quantity:    it.Quantity,
		})
	}
	return resp
}

func quotationList(items []domain.Quotation) []dto.QuotationResponse {
	out := make([]dto.QuotationResponse, 0, len(items))
	for i := range items {
		out = append(out, quotationResponse(&items[i]))
	}
	return out
}

func personalizationResponse(p *domain.SnackPersonalization) *dto.PersonalizationResponse {
	if p == nil {
		return nil
	}
	resp := &dto.PersonalizationResponse{
		QuotationID: p.QuotationID,
		Fruits:      joinedOrNil(p.Fruits),
		Chips:       joinedOrNil(p.Chips),
		Toppings:    joinedOrNil(p.Toppings),
	}
	if !p.UpdatedAt.IsZero() {
		updated := p.UpdatedAt
		resp.UpdatedAt = &updated
	}
	return resp
}

func joinedOrNil(values []string) *string {
	if len(values) == 0 {
		return nil
	}
	s := domain.JoinSelection(values)
	return &s
}

func eventTypeCounts(counts []domain.EventTypeCount) []dto.EventTypeCountResponse {
	out := make([]dto.EventTypeCountResponse, 0, len(counts))
	for _, c := range counts {
		out = append(out, dto.EventTypeCountResponse{EventType: c.EventType, Count: c.Count})
	}
	return out
}

func quotationStatsResponse(s *domain.QuotationStats) dto.QuotationStatsResponse {
	resp := dto.QuotationStatsResponse{
		Total:       s.Total,
		ByStatus:    make([]dto.StatusCountResponse, 0, len(s.ByStatus)),
		ByEventType: eventTypeCounts(s.ByEventType),
		LastMonth:   s.LastMonth,
	}
	for _, c := range s.ByStatus {
		resp.ByStatus = append(resp.ByStatus, dto.StatusCountResponse{Status: c.Status, Count: c.Count})
	}
	return resp
}

func catalogItemResponse(it *domain.CatalogItem) dto.CatalogItemResponse {
	resp := dto.CatalogItemResponse{
		ID:          it.ID,
		Name:        it.Name,
		Description: it.Description,
		Type:        it.Type,
		IsPopular:   it.IsPopular,
		Details:     it.Details,
		Status:      it.Status,
		ImageURL:    it.ImageURL,
		CreatedAt:   it.CreatedAt,
		Products:    make([]dto.CatalogProductResponse, 0, len(it.Products)),
	}
	for _, p := range it.Products {
		resp.Products = append(resp.Products, dto.CatalogProductResponse{
			ProductID: p.ProductID,
			Name:      p.Name,
			Category:  p.Category,
			Unit:      p.Unit,
			Quantity:  p.Quantity.InexactFloat64(),
		})
	}
	return resp
}

func productResponse(p *domain.InventoryProduct) dto.InventoryProductResponse {
	return dto.InventoryProductResponse{
		ID:           p.ID,
		Name:         p.Name,
		Category:     p.Category,
		CurrentStock: p.CurrentStock.InexactFloat64(),
		MinStock:     p.MinStock.InexactFloat64(),
		Unit:         p.Unit,
		StockLevel:   p.StockLevel(),
		UpdatedAt:    p.UpdatedAt,
	}
}

func productList(items []domain.InventoryProduct) []dto.InventoryProductResponse {
	out := make([]dto.InventoryProductResponse, 0, len(items))
	for i := range items {
		out = append(out, productResponse(&items[i]))
	}
	return out
}

func galleryEventResponse(e *domain.GalleryEvent) dto.GalleryEventResponse {
	resp := dto.GalleryEventResponse{
		ID:          e.ID,
		Title:       e.Title,
		EventType:   e.EventType,
		Description: e.Description,
		ClientName:  e.ClientName,
		ImageURL:    e.ImageURL,
		CreatedAt:   e.CreatedAt,
	}
	if e.EventDate != nil {
		d := e.EventDate.Format(time.DateOnly)
		resp.EventDate = &d
	}
	return resp
}

func galleryList(items []domain.GalleryEvent) []dto.GalleryEventResponse {
	out := make([]dto.GalleryEventResponse, 0, len(items))
	for i := range items {
		out = append(out, galleryEventResponse(&items[i]))
	}
	return out
}
