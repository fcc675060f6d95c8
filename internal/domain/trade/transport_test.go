package trade_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/EspaAdmin/Espa-Roleplay-Development/internal/domain/shared"
	"github.com/EspaAdmin/Espa-Roleplay-Development/internal/domain/trade"
)

func TestTransportCost_ModeFactors(t *testing.T) {
	// 1000 kg over 100 km at the base tariff
	assert.InDelta(t, 8.0, trade.TransportCost(1000, 100, trade.ModeLand), 1e-9)
	assert.InDelta(t, 5.6, trade.TransportCost(1000, 100, trade.ModeRail), 1e-9)
	assert.InDelta(t, 3.2, trade.TransportCost(1000, 100, trade.ModeSea), 1e-9)
	assert.InDelta(t, 8.0, trade.TransportCost(1000, 100, trade.ModeAuto), 1e-9)
}

func TestMode_UnknownPricesAsLand(t *testing.T) {
	assert.InDelta(t, 1.0, trade.Mode("zeppelin").Factor(), 1e-9)
	assert.False(t, trade.Mode("zeppelin").Valid())
	assert.True(t, trade.ModeSea.Valid())
}

func TestShipmentWeight_SumsBothLegs(t *testing.T) {
	// Arrange
	offered := shared.ResourceSet{"Coal": 10}
	requested := shared.ResourceSet{"Iron": 5, "Coal": 2}
	weights := map[shared.Resource]float64{"Coal": 2, "Iron": 1}

	// Act
	weight := trade.ShipmentWeight(offered, requested, func(r shared.Resource) float64 {
		return weights[r]
	})

	// Assert - (10+2) coal at 2 kg plus 5 iron at 1 kg
	assert.InDelta(t, 29, weight, 1e-9)
}

func TestShipmentWeight_DefaultsWithoutWeightFunc(t *testing.T) {
	weight := trade.ShipmentWeight(shared.ResourceSet{"Coal": 10}, nil, nil)
	assert.InDelta(t, 10, weight, 1e-9)
}

func TestDistance(t *testing.T) {
	assert.InDelta(t, 5, trade.Distance(0, 0, 3, 4), 1e-9)
	assert.InDelta(t, 0, trade.Distance(2, 2, 2, 2), 1e-9)
}

func TestOffer_Lifecycle(t *testing.T) {
	offer := &trade.Offer{ID: 1, FromNation: "n1", ToNation: "n2", Status: trade.OfferOpen}

	assert.NoError(t, offer.AcceptableBy("n2"))
	assert.Error(t, offer.AcceptableBy("n1"))
	assert.NoError(t, offer.CancellableBy("n1"))
	assert.Error(t, offer.CancellableBy("n2"))

	offer.Status = trade.OfferCompleted
	assert.Error(t, offer.AcceptableBy("n2"))
	assert.Error(t, offer.CancellableBy("n1"))
}
