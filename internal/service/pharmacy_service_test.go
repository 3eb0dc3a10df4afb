package service

import (
	"context"
	"net/http"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"hospital-dashboard/internal/model"
	"hospital-dashboard/pkg/apierror"
)

func TestPharmacyService_Dispense(t *testing.T) {
	t.Parallel()

	t.Run("stock follows the ledger", func(t *testing.T) {
		f := newFixture(t)
		f.loginAs(t, "pharm@example.org", "Pharmacist")
		patient := f.api.SeedPatient("Ada", "Lovelace")
		med := f.api.SeedMedicine("Amoxicillin", 10, 1.5)

		result, err := f.pharmacy.Dispense(context.Background(), model.DispenseRequest{
			PatientID: patient.ID, MedicineID: med.ID, QuantityDispensed: 4,
		})
		require.NoError(t, err)
		require.Equal(t, 4, result.Record.QuantityDispensed)
		require.Equal(t, 6, result.Inventory[0].StockQuantity)
		require.Len(t, result.History, 1)
		require.Equal(t, "Ada Lovelace", result.History[0].Patient.DisplayName())

		result, err = f.pharmacy.Dispense(context.Background(), model.DispenseRequest{
			PatientID: patient.ID, MedicineID: med.ID, QuantityDispensed: 10,
		})
		require.True(t, apierror.IsConflict(err))
		require.Nil(t, result.Record)
		require.Equal(t, 6, result.Inventory[0].StockQuantity)
		require.Equal(t, 6, f.api.Medicine(med.ID).StockQuantity)

		history, err := f.pharmacy.History(context.Background())
		require.NoError(t, err)
		require.Len(t, history, 1)
	})

	t.Run("local validation sends nothing", func(t *testing.T) {
		f := newFixture(t)
		f.loginAs(t, "pharm@example.org", "Pharmacist")
		before := f.api.Requests()

		for _, in := range []model.DispenseRequest{
			{PatientID: 1, MedicineID: 1, QuantityDispensed: 0},
			{PatientID: 1, MedicineID: 1, QuantityDispensed: -3},
			{PatientID: 0, MedicineID: 1, QuantityDispensed: 1},
		} {
			_, err := f.pharmacy.Dispense(context.Background(), in)
			require.True(t, apierror.Is(err, apierror.CodeBadRequest))
		}
		require.Equal(t, before, f.api.Requests())
	})

	t.Run("concurrent dispensations never overdraw", func(t *testing.T) {
		f := newFixture(t)
		f.loginAs(t, "pharm@example.org", "Pharmacist")
		patient := f.api.SeedPatient("Ada", "Lovelace")
		med := f.api.SeedMedicine("Ibuprofen", 5, 0.5)

		var wg sync.WaitGroup
		var mu sync.Mutex
		succeeded := 0
		for range 8 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, err := f.pharmacy.Dispense(context.Background(), model.DispenseRequest{
					PatientID: patient.ID, MedicineID: med.ID, QuantityDispensed: 2,
				})
				if err == nil {
					mu.Lock()
					succeeded++
					mu.Unlock()
				}
			}()
		}
		wg.Wait()

		require.Equal(t, 2, succeeded)
		require.Equal(t, 1, f.api.Medicine(med.ID).StockQuantity)
		require.Len(t, f.api.Dispensations(), 2)
	})

	t.Run("nurse is refused upstream", func(t *testing.T) {
		f := newFixture(t)
		f.loginAs(t, "nurse@example.org", "Nurse")

		_, err := f.pharmacy.Dispense(context.Background(), model.DispenseRequest{PatientID: 1, MedicineID: 1, QuantityDispensed: 1})
		var apiErr *apierror.APIError
		require.ErrorAs(t, err, &apiErr)
		require.Equal(t, http.StatusForbidden, apiErr.HTTPStatus)
		require.True(t, f.session.Authenticated())
	})
}

func TestPharmacyService_Inventory(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.loginAs(t, "admin@example.org", "Admin")
	ctx := context.Background()

	medicines, err := f.pharmacy.AddMedicine(ctx, model.MedicineInput{Name: " Paracetamol ", Manufacturer: "Acme", StockQuantity: 20, UnitPrice: 0.2})
	require.NoError(t, err)
	require.Len(t, medicines, 1)
	require.Equal(t, "Paracetamol", medicines[0].Name)
	id := medicines[0].ID

	price := 0.3
	medicines, err = f.pharmacy.UpdateMedicine(ctx, id, model.MedicineUpdate{UnitPrice: &price})
	require.NoError(t, err)
	require.InDelta(t, 0.3, medicines[0].UnitPrice, 1e-9)
	require.Equal(t, 20, medicines[0].StockQuantity)

	medicines, err = f.pharmacy.Restock(ctx, id, 5)
	require.NoError(t, err)
	require.Equal(t, 25, medicines[0].StockQuantity)

	_, err = f.pharmacy.Restock(ctx, id, 0)
	require.True(t, apierror.Is(err, apierror.CodeBadRequest))

	_, err = f.pharmacy.AddMedicine(ctx, model.MedicineInput{Name: "Bad", StockQuantity: -1})
	require.True(t, apierror.Is(err, apierror.CodeBadRequest))

	medicines, err = f.pharmacy.DeleteMedicine(ctx, id)
	require.NoError(t, err)
	require.Empty(t, medicines)
}
