package infrastructure

import "mycelium/internal/service/order/domain"

func ToDomainOrder(m *OrderModel) *domain.Order {
	return &domain.Order{
		ID: m.ID,
		Customer: domain.Customer{
			Name:  m.CustomerName,
			Email: m.CustomerEmail,
			Phone: m.CustomerPhone,
		},
		Shipping: domain.ShippingDetails{
			Region:      m.ShippingRegion,
			Commune:     m.ShippingCommune,
			Address:     m.ShippingAddress,
			Zone:        m.ShippingZone,
			SizeClass:   m.ShippingSizeClass,
			WeightGrams: m.ShippingWeightGrams,
			CostCLP:     m.ShippingCostCLP,
		},
		Lines:            m.Lines,
		SubtotalCLP:      m.SubtotalCLP,
		TotalCLP:         m.TotalCLP,
		State:            domain.State(m.State),
		PaymentURL:       m.PaymentURL,
		PaymentReference: m.PaymentReference,
		FailureReason:    m.FailureReason,
		CreatedAt:        m.CreatedAt,
		UpdatedAt:        m.UpdatedAt,
		PaidAt:           m.PaidAt,
	}
}

func FromDomainOrder(o *domain.Order) *OrderModel {
	return &OrderModel{
		ID:                  o.ID,
		CustomerName:        o.Customer.Name,
		CustomerEmail:       o.Customer.Email,
		CustomerPhone:       o.Customer.Phone,
		ShippingRegion:      o.Shipping.Region,
		ShippingCommune:     o.Shipping.Commune,
		ShippingAddress:     o.Shipping.Address,
		ShippingZone:        o.Shipping.Zone,
		ShippingSizeClass:   o.Shipping.SizeClass,
		ShippingWeightGrams: o.Shipping.WeightGrams,
		ShippingCostCLP:     o.Shipping.CostCLP,
		Lines:               o.Lines,
		SubtotalCLP:         o.SubtotalCLP,
		TotalCLP:            o.TotalCLP,
		State:               string(o.State),
		PaymentURL:          o.PaymentURL,
		PaymentReference:    o.PaymentReference,
		FailureReason:       o.FailureReason,
		CreatedAt:           o.CreatedAt,
		UpdatedAt:           o.UpdatedAt,
		PaidAt:              o.PaidAt,
	}
}
