package http

import (
	"driverapp/internal/core/application/usecases/queries"
	"driverapp/internal/core/domain/services"
)

// Error is the uniform error body of the API.
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`

	// Expected carries the confirmation token on a scan mismatch so the
	// device can show the driver what it is looking for.
	Expected string `json:"expected,omitempty"`
}

// TransitionRequest identifies the acting driver on transition endpoints.
type TransitionRequest struct {
	DriverID string `json:"driverId"`
}

// TransitionResponse reports the mission state after a transition.
type TransitionResponse struct {
	Status string `json:"status"`
	Step   int    `json:"step"`

	// Degraded is true when the transition persisted without its history
	// entry because the backing schema misses the history column.
	Degraded bool `json:"degraded,omitempty"`
}

// ConfirmDeliveryRequest carries the code scanned from the client's screen.
type ConfirmDeliveryRequest struct {
	TransitionRequest
	ScannedCode string `json:"scannedCode"`
}

// ConfirmDeliveryResponse extends the transition result with the driver's
// lifetime delivery count after the increment.
type ConfirmDeliveryResponse struct {
	TransitionResponse
	DeliveryCount int `json:"deliveryCount"`
}

// SetPresenceRequest toggles availability; Heartbeat additionally keeps the
// presence re-asserted on a schedule until turned off.
type SetPresenceRequest struct {
	DriverID  string `json:"driverId"`
	Presence  string `json:"presence"`
	Heartbeat bool   `json:"heartbeat"`
}

// MissionSummary is one row of the driver's mission list.
type MissionSummary struct {
	ID            string   `json:"id"`
	Category      string   `json:"category,omitempty"`
	ClientName    string   `json:"clientName"`
	ClientAddress string   `json:"clientAddress,omitempty"`
	Distance      string   `json:"distance,omitempty"`
	TotalPrice    string   `json:"totalPrice"`
	DeliveryFee   string   `json:"deliveryFee"`
	Status        string   `json:"status"`
	Step          int      `json:"step"`
	IsMultiStore  bool     `json:"isMultiStore"`
	StoreCount    int      `json:"storeCount"`
	StoreNames    []string `json:"storeNames,omitempty"`
}

// StoreInfo is the enriched directory record of one store.
type StoreInfo struct {
	Name           string  `json:"name"`
	Lat            float64 `json:"lat"`
	Lng            float64 `json:"lng"`
	MapsURL        string  `json:"mapsUrl,omitempty"`
	Phone          string  `json:"phone,omitempty"`
	AvgPrepMinutes int     `json:"avgPrepMinutes,omitempty"`
}

// StoreGroupView is the per-store slice of the cart.
type StoreGroupView struct {
	StoreName  string     `json:"storeName"`
	Items      []ItemView `json:"items"`
	TotalItems int        `json:"totalItems"`
	TotalPrice string     `json:"totalPrice"`
	StoreInfo  *StoreInfo `json:"storeInfo,omitempty"`
}

// ItemView is one cart line.
type ItemView struct {
	ProductName string `json:"productName"`
	StoreName   string `json:"storeName,omitempty"`
	Quantity    int    `json:"quantity"`
	UnitPrice   string `json:"unitPrice,omitempty"`
}

// HistoryEntry is one recorded status transition.
type HistoryEntry struct {
	Status string `json:"status"`
	Time   string `json:"time"`
}

// MissionView is the full single-mission payload.
type MissionView struct {
	MissionSummary
	ClientPhone       string           `json:"clientPhone,omitempty"`
	PaymentMethod     string           `json:"paymentMethod,omitempty"`
	Note              string           `json:"note,omitempty"`
	History           []HistoryEntry   `json:"history,omitempty"`
	ConfirmationToken string           `json:"confirmationToken"`
	StoreGroups       []StoreGroupView `json:"storeGroups"`
	RouteURL          string           `json:"routeUrl,omitempty"`
	ClientMapURL      string           `json:"clientMapUrl,omitempty"`
	Terminal          bool             `json:"terminal"`
	Rejected          bool             `json:"rejected"`
	Delivered         bool             `json:"delivered"`
}

func newTransitionResponse(status string, step int, degraded bool) TransitionResponse {
	return TransitionResponse{Status: status, Step: step, Degraded: degraded}
}

func newMissionSummary(m queries.GetActiveMissionsQueryResponse) MissionSummary {
	return MissionSummary{
		ID:            m.ID.String(),
		Category:      m.Category,
		ClientName:    m.ClientName,
		ClientAddress: m.ClientAddress,
		Distance:      m.Distance,
		TotalPrice:    m.TotalPrice.String(),
		DeliveryFee:   m.DeliveryFee.String(),
		Status:        m.Status.WireLabel(),
		Step:          m.Step,
		IsMultiStore:  m.IsMultiStore,
		StoreCount:    m.StoreCount,
		StoreNames:    m.StoreNames,
	}
}

func newMissionView(v queries.GetMissionQueryResponse) MissionView {
	view := MissionView{
		MissionSummary: MissionSummary{
			ID:            v.ID.String(),
			Category:      v.Category,
			ClientName:    v.ClientName,
			ClientAddress: v.ClientAddress,
			Distance:      v.Distance,
			TotalPrice:    v.TotalPrice.String(),
			DeliveryFee:   v.DeliveryFee.String(),
			Status:        v.Status.WireLabel(),
			Step:          v.Step,
			IsMultiStore:  v.Detection.IsMultiStore,
			StoreCount:    v.Detection.StoreCount,
			StoreNames:    v.Detection.StoreNames,
		},
		ClientPhone:       v.ClientPhone,
		PaymentMethod:     v.PaymentMethod,
		Note:              v.Note,
		ConfirmationToken: v.ConfirmationToken,
		ClientMapURL:      services.PointLink(v.ClientAddress, v.Destination),
		Terminal:          v.Terminal,
		Rejected:          v.Rejected,
		Delivered:         v.Delivered,
	}

	for _, entry := range v.History {
		view.History = append(view.History, HistoryEntry{
			Status: entry.Label,
			Time:   entry.Time.Format("2006-01-02T15:04:05Z07:00"),
		})
	}

	view.StoreGroups = make([]StoreGroupView, len(v.Detection.StoreGroups))
	for i, group := range v.Detection.StoreGroups {
		view.StoreGroups[i] = newStoreGroupView(group)
	}

	if v.HasRoute {
		view.RouteURL = v.RouteURL
	}

	return view
}

func newStoreGroupView(group services.StoreGroup) StoreGroupView {
	out := StoreGroupView{
		StoreName:  group.StoreName,
		TotalItems: group.TotalItems,
		TotalPrice: group.TotalPrice.String(),
	}

	out.Items = make([]ItemView, len(group.Items))
	for i, item := range group.Items {
		view := ItemView{
			ProductName: item.ProductName,
			StoreName:   item.StoreName,
			Quantity:    item.Quantity,
		}
		if item.UnitPrice != nil {
			view.UnitPrice = item.UnitPrice.String()
		}
		out.Items[i] = view
	}

	if info := group.StoreInfo; info != nil {
		out.StoreInfo = &StoreInfo{
			Name:           info.Name,
			Lat:            info.Location.Lat(),
			Lng:            info.Location.Lng(),
			MapsURL:        info.MapsURL,
			Phone:          info.Phone,
			AvgPrepMinutes: info.AvgPrepMinutes,
		}
	}

	return out
}
