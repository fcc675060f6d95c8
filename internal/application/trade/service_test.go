package trade_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/EspaAdmin/Espa-Roleplay-Development/internal/adapters/persistence"
	apptrade "github.com/EspaAdmin/Espa-Roleplay-Development/internal/application/trade"
	"github.com/EspaAdmin/Espa-Roleplay-Development/internal/domain/shared"
	"github.com/EspaAdmin/Espa-Roleplay-Development/internal/domain/trade"
	"github.com/EspaAdmin/Espa-Roleplay-Development/test/helpers"
)

func newTradeService(t *testing.T) (*apptrade.Service, *gorm.DB) {
	db := helpers.NewTestDB(t)
	repos := persistence.NewRepositories(db)
	uow := persistence.NewGormUnitOfWork(db)
	return apptrade.NewService(repos, uow, nil, nil), db
}

func seedTradeWorld(t *testing.T, db *gorm.DB) {
	helpers.SeedNation(t, db, persistence.NationModel{NationID: "n1", Name: "Arvenia", Cash: 1000})
	helpers.SeedNation(t, db, persistence.NationModel{NationID: "n2", Name: "Belmark", Cash: 1000})
	helpers.SeedProvince(t, db, persistence.ProvinceModel{
		ProvinceID: "p1", StateID: "s1", ControllerID: helpers.ControlledBy("n1"),
		Name: "Alpha", NodeStrength: 10, X: 0, Y: 0,
	})
	helpers.SeedProvince(t, db, persistence.ProvinceModel{
		ProvinceID: "p2", StateID: "s2", ControllerID: helpers.ControlledBy("n2"),
		Name: "Beta", NodeStrength: 10, X: 3, Y: 4,
	})
	helpers.SeedResource(t, db, "Coal", 2)
	helpers.SeedResource(t, db, "Iron", 1)
}

func nationCash(t *testing.T, db *gorm.DB, nationID string) float64 {
	var model persistence.NationModel
	require.NoError(t, db.Where("nation_id = ?", nationID).First(&model).Error)
	return model.Cash
}

func TestCreateOffer_EscrowsOfferedCash(t *testing.T) {
	// Arrange
	svc, db := newTradeService(t)
	seedTradeWorld(t, db)

	// Act
	offer, err := svc.CreateOffer(context.Background(), apptrade.CreateOfferRequest{
		FromNation: "n1", ToNation: "n2", OfferedCash: 200,
	})

	// Assert - the cash leaves the treasury the moment the offer opens
	require.NoError(t, err)
	assert.Equal(t, trade.OfferOpen, offer.Status)
	assert.InDelta(t, 800, nationCash(t, db, "n1"), 1e-9)
}

func TestCreateOffer_AdmissionCap(t *testing.T) {
	// Arrange
	svc, db := newTradeService(t)
	seedTradeWorld(t, db)

	for i := 0; i < trade.MaxOpenOffersPerNation; i++ {
		_, err := svc.CreateOffer(context.Background(), apptrade.CreateOfferRequest{
			FromNation: "n1", ToNation: "n2", OfferedCash: 10,
		})
		require.NoError(t, err)
	}

	// Act - one past the cap
	_, err := svc.CreateOffer(context.Background(), apptrade.CreateOfferRequest{
		FromNation: "n1", ToNation: "n2", OfferedCash: 10,
	})

	// Assert
	var limitErr *shared.AdmissionLimitError
	require.ErrorAs(t, err, &limitErr)
	assert.Equal(t, trade.MaxOpenOffersPerNation, limitErr.Open)
}

func TestCancelOffer_RefundsEscrow(t *testing.T) {
	// Arrange
	svc, db := newTradeService(t)
	seedTradeWorld(t, db)

	offer, err := svc.CreateOffer(context.Background(), apptrade.CreateOfferRequest{
		FromNation: "n1", ToNation: "n2", OfferedCash: 200,
	})
	require.NoError(t, err)

	// Act
	err = svc.CancelOffer(context.Background(), "n1", offer.ID)

	// Assert
	require.NoError(t, err)
	assert.InDelta(t, 1000, nationCash(t, db, "n1"), 1e-9)

	offers, err := svc.ListOffers(context.Background(), "n1", 10)
	require.NoError(t, err)
	require.Len(t, offers, 1)
	assert.Equal(t, trade.OfferCancelled, offers[0].Status)
}

func TestAcceptOffer_SettlesGoodsCashAndTransport(t *testing.T) {
	// Arrange
	svc, db := newTradeService(t)
	seedTradeWorld(t, db)
	helpers.SeedStockpile(t, db, "p1", "Coal", 10, 100000)
	helpers.SeedStockpile(t, db, "p2", "Iron", 5, 100000)

	offer, err := svc.CreateOffer(context.Background(), apptrade.CreateOfferRequest{
		FromNation:    "n1",
		ToNation:      "n2",
		Offered:       shared.ResourceSet{"Coal": 10},
		Requested:     shared.ResourceSet{"Iron": 5},
		OfferedCash:   100,
		RequestedCash: 50,
		Mode:          trade.ModeLand,
	})
	require.NoError(t, err)

	// Act
	record, err := svc.AcceptOffer(context.Background(), "n2", offer.ID)

	// Assert - weight 10x2 + 5x1 = 25 kg over distance 5 km by land:
	// transport = 25 * 5 * 0.00008 = 0.01, taken out of the escrow payout.
	require.NoError(t, err)
	assert.InDelta(t, 0.01, record.TransportCost, 1e-9)
	assert.InDelta(t, 150, record.CashExchanged, 1e-9)

	assert.InDelta(t, 950, nationCash(t, db, "n1"), 1e-9)
	assert.InDelta(t, 1049.99, nationCash(t, db, "n2"), 1e-9)

	store := persistence.NewGormStockpileStore(db)
	entry, err := store.Entry(context.Background(), "p2", shared.Resource("Coal"))
	require.NoError(t, err)
	assert.InDelta(t, 10, entry.Amount, 1e-9)
	entry, err = store.Entry(context.Background(), "p1", shared.Resource("Iron"))
	require.NoError(t, err)
	assert.InDelta(t, 5, entry.Amount, 1e-9)

	offers, err := svc.ListOffers(context.Background(), "n1", 10)
	require.NoError(t, err)
	require.Len(t, offers, 1)
	assert.Equal(t, trade.OfferCompleted, offers[0].Status)
}

func TestAcceptOffer_FailureRefundsEscrowExactlyOnce(t *testing.T) {
	// Arrange - the accepter cannot cover the requested goods
	svc, db := newTradeService(t)
	seedTradeWorld(t, db)

	offer, err := svc.CreateOffer(context.Background(), apptrade.CreateOfferRequest{
		FromNation:  "n1",
		ToNation:    "n2",
		Requested:   shared.ResourceSet{"Iron": 5},
		OfferedCash: 200,
	})
	require.NoError(t, err)
	require.InDelta(t, 800, nationCash(t, db, "n1"), 1e-9)

	// Act
	_, err = svc.AcceptOffer(context.Background(), "n2", offer.ID)

	// Assert - settlement fails, the compensating refund lands and the
	// failed status blocks any second attempt
	var insufficientErr *shared.InsufficientResourceError
	require.ErrorAs(t, err, &insufficientErr)
	assert.InDelta(t, 1000, nationCash(t, db, "n1"), 1e-9)

	offers, err := svc.ListOffers(context.Background(), "n1", 10)
	require.NoError(t, err)
	require.Len(t, offers, 1)
	assert.Equal(t, trade.OfferFailed, offers[0].Status)

	_, err = svc.AcceptOffer(context.Background(), "n2", offer.ID)
	var stateErr *shared.InvalidStateError
	require.ErrorAs(t, err, &stateErr)
	assert.InDelta(t, 1000, nationCash(t, db, "n1"), 1e-9)
}

func TestAcceptOffer_NotAddressedToCaller(t *testing.T) {
	// Arrange
	svc, db := newTradeService(t)
	seedTradeWorld(t, db)
	helpers.SeedNation(t, db, persistence.NationModel{NationID: "n3", Name: "Corvia", Cash: 1000})

	offer, err := svc.CreateOffer(context.Background(), apptrade.CreateOfferRequest{
		FromNation: "n1", ToNation: "n2", OfferedCash: 100,
	})
	require.NoError(t, err)

	// Act
	_, err = svc.AcceptOffer(context.Background(), "n3", offer.ID)

	// Assert - a validation rejection leaves the offer open and escrowed
	var unauthorizedErr *shared.UnauthorizedError
	require.ErrorAs(t, err, &unauthorizedErr)
	assert.InDelta(t, 900, nationCash(t, db, "n1"), 1e-9)

	offers, err := svc.ListOffers(context.Background(), "n1", 10)
	require.NoError(t, err)
	require.Len(t, offers, 1)
	assert.Equal(t, trade.OfferOpen, offers[0].Status)
}

func TestAcceptOffer_CancelledOfferCannotSettle(t *testing.T) {
	// Arrange
	svc, db := newTradeService(t)
	seedTradeWorld(t, db)
	helpers.SeedStockpile(t, db, "p1", "Coal", 10, 100000)

	offer, err := svc.CreateOffer(context.Background(), apptrade.CreateOfferRequest{
		FromNation: "n1", ToNation: "n2",
		Offered: shared.ResourceSet{"Coal": 10}, OfferedCash: 100,
	})
	require.NoError(t, err)
	require.NoError(t, svc.CancelOffer(context.Background(), "n1", offer.ID))

	// Act - the accepter races in after the cancellation refunded the escrow
	_, err = svc.AcceptOffer(context.Background(), "n2", offer.ID)

	// Assert - settlement re-reads the status and rejects; no goods move,
	// no cash is minted from the already-refunded escrow
	var stateErr *shared.InvalidStateError
	require.ErrorAs(t, err, &stateErr)
	assert.InDelta(t, 1000, nationCash(t, db, "n1"), 1e-9)
	assert.InDelta(t, 1000, nationCash(t, db, "n2"), 1e-9)

	offers, err := svc.ListOffers(context.Background(), "n1", 10)
	require.NoError(t, err)
	require.Len(t, offers, 1)
	assert.Equal(t, trade.OfferCancelled, offers[0].Status)

	var trades int64
	require.NoError(t, db.Model(&persistence.TradeRecordModel{}).Count(&trades).Error)
	assert.Zero(t, trades)
}

func TestPostMarket_SellRequiresUnreservedStock(t *testing.T) {
	// Arrange
	svc, db := newTradeService(t)
	seedTradeWorld(t, db)
	helpers.SeedStockpile(t, db, "p1", "Coal", 30, 1000)

	// Act
	_, err := svc.PostMarket(context.Background(), apptrade.PostMarketRequest{
		NationID: "n1", Resource: "Coal", Quantity: 50, PricePerUnit: 2, IsSell: true,
	})

	// Assert
	var insufficientErr *shared.InsufficientResourceError
	require.ErrorAs(t, err, &insufficientErr)
	assert.InDelta(t, 20, insufficientErr.Shortfall, 1e-9)
}

func TestPostMarket_UnknownResource(t *testing.T) {
	// Arrange
	svc, db := newTradeService(t)
	seedTradeWorld(t, db)

	// Act
	_, err := svc.PostMarket(context.Background(), apptrade.PostMarketRequest{
		NationID: "n1", Resource: "Unobtanium", Quantity: 5, PricePerUnit: 1,
	})

	// Assert
	var notFoundErr *shared.NotFoundError
	assert.ErrorAs(t, err, &notFoundErr)
}

func TestAcceptMarketPost_ConvertsToEscrowedOffer(t *testing.T) {
	// Arrange - n1 sells 10 coal at 3 apiece
	svc, db := newTradeService(t)
	seedTradeWorld(t, db)
	helpers.SeedStockpile(t, db, "p1", "Coal", 50, 1000)

	post, err := svc.PostMarket(context.Background(), apptrade.PostMarketRequest{
		NationID: "n1", Resource: "Coal", Quantity: 10, PricePerUnit: 3, IsSell: true,
	})
	require.NoError(t, err)

	// Act
	offer, err := svc.AcceptMarketPost(context.Background(), "n2", post.ID)

	// Assert - the buyer's 30 is escrowed, the post is consumed and the
	// poster now holds an open offer requesting the coal
	require.NoError(t, err)
	assert.Equal(t, "n2", offer.FromNation)
	assert.Equal(t, "n1", offer.ToNation)
	assert.InDelta(t, 30, offer.OfferedCash, 1e-9)
	assert.InDelta(t, 10, offer.Requested[shared.Resource("Coal")], 1e-9)
	assert.InDelta(t, 970, nationCash(t, db, "n2"), 1e-9)

	posts, err := svc.ListMarketPosts(context.Background(), "", 10)
	require.NoError(t, err)
	assert.Empty(t, posts)
}

func TestEstimateTransportCost_ModeDiscount(t *testing.T) {
	// Arrange
	svc, db := newTradeService(t)
	seedTradeWorld(t, db)

	// Act
	land, err := svc.EstimateTransportCost(context.Background(), "n1", "n2",
		shared.ResourceSet{"Coal": 100}, nil, trade.ModeLand)
	require.NoError(t, err)
	sea, err := svc.EstimateTransportCost(context.Background(), "n1", "n2",
		shared.ResourceSet{"Coal": 100}, nil, trade.ModeSea)
	require.NoError(t, err)

	// Assert - sea ships at 40% of the land tariff
	assert.InDelta(t, 200*5*0.00008, land.Total, 1e-9)
	assert.InDelta(t, land.Total*0.4, sea.Total, 1e-9)
}
