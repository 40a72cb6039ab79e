package api

import (
	"autoledger/internal/domain"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"
)

func TestListExpensesOrderedByDateDescending(t *testing.T) {
	r, db, _ := setupTestRouter(t)
	owner, token := createTestUser(t, db, "dealer", "dealer@example.com", "secretpass")
	toyota, camry, _, _ := seedCatalog(t, db)

	vehicle := domain.Vehicle{OwnerID: owner.ID, VIN: "1HGCM82633A123456", BrandID: toyota.ID,
		ModelID: camry.ID, Year: 2020, Mileage: 15000, Status: domain.StatusForSale}
	if err := db.Create(&vehicle).Error; err != nil {
		t.Fatalf("create vehicle: %v", err)
	}
	expenses := []domain.Expense{
		{VehicleID: vehicle.ID, ExpenseType: domain.ExpenseRepaid, Amount: 10000, Date: domain.NewDate(2024, 11, 1)},
		{VehicleID: vehicle.ID, ExpenseType: domain.ExpenseDelivery, Amount: 20000, Date: domain.NewDate(2024, 12, 15)},
		{VehicleID: vehicle.ID, ExpenseType: domain.ExpenseDocuments, Amount: 5000, Date: domain.NewDate(2024, 12, 1)},
	}
	for i := range expenses {
		if err := db.Create(&expenses[i]).Error; err != nil {
			t.Fatalf("create expense: %v", err)
		}
	}

	w := doRequest(r, http.MethodGet, fmt.Sprintf("/expenses/list/%d/", vehicle.ID), "", token)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d body=%s", w.Code, w.Body.String())
	}
	var listed []domain.Expense
	if err := json.Unmarshal(w.Body.Bytes(), &listed); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(listed) != 3 {
		t.Fatalf("expected 3 expenses, got %d", len(listed))
	}
	// Latest date first
	if listed[0].Date.String() != "2024-12-15" || listed[1].Date.String() != "2024-12-01" || listed[2].Date.String() != "2024-11-01" {
		t.Fatalf("unexpected order: %s, %s, %s", listed[0].Date, listed[1].Date, listed[2].Date)
	}
}

func TestCreateExpense(t *testing.T) {
	r, db, _ := setupTestRouter(t)
	owner, token := createTestUser(t, db, "dealer", "dealer@example.com", "secretpass")
	toyota, camry, _, _ := seedCatalog(t, db)

	vehicle := domain.Vehicle{OwnerID: owner.ID, VIN: "1HGCM82633A123456", BrandID: toyota.ID,
		ModelID: camry.ID, Year: 2020, Mileage: 15000, Status: domain.StatusForSale}
	if err := db.Create(&vehicle).Error; err != nil {
		t.Fatalf("create vehicle: %v", err)
	}

	body := fmt.Sprintf(`{"vehicle":%d,"expense_type":"repaid","amount":45000,"date":"2024-12-20","description":"gearbox"}`, vehicle.ID)
	w := doRequest(r, http.MethodPost, "/expenses/create/", body, token)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d body=%s", w.Code, w.Body.String())
	}
	var created domain.Expense
	if err := json.Unmarshal(w.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if created.ID == 0 || created.Amount != 45000 || created.ExpenseType != domain.ExpenseRepaid {
		t.Fatalf("unexpected expense: %+v", created)
	}
}

func TestCreateExpenseMissingVehicle(t *testing.T) {
	r, db, _ := setupTestRouter(t)
	_, token := createTestUser(t, db, "dealer", "dealer@example.com", "secretpass")

	body := `{"vehicle":9999,"expense_type":"other","amount":100,"date":"2024-12-20"}`
	w := doRequest(r, http.MethodPost, "/expenses/create/", body, token)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d body=%s", w.Code, w.Body.String())
	}
	var resp map[string]string
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	if resp["detail"] != "No Vehicle matches the given query." {
		t.Fatalf("unexpected detail: %q", resp["detail"])
	}
}

func TestDeleteExpense(t *testing.T) {
	r, db, _ := setupTestRouter(t)
	owner, token := createTestUser(t, db, "dealer", "dealer@example.com", "secretpass")
	toyota, camry, _, _ := seedCatalog(t, db)

	vehicle := domain.Vehicle{OwnerID: owner.ID, VIN: "1HGCM82633A123456", BrandID: toyota.ID,
		ModelID: camry.ID, Year: 2020, Mileage: 15000, Status: domain.StatusForSale}
	if err := db.Create(&vehicle).Error; err != nil {
		t.Fatalf("create vehicle: %v", err)
	}
	expense := domain.Expense{VehicleID: vehicle.ID, ExpenseType: domain.ExpenseOther,
		Amount: 100, Date: domain.NewDate(2024, 12, 1)}
	if err := db.Create(&expense).Error; err != nil {
		t.Fatalf("create expense: %v", err)
	}

	w := doRequest(r, http.MethodDelete, fmt.Sprintf("/expenses/delete/%d/", expense.ID), "", token)
	if w.Code != http.StatusNoContent {
		t.Fatalf("expected 204 got %d", w.Code)
	}
	var count int64
	db.Model(&domain.Expense{}).Count(&count)
	if count != 0 {
		t.Fatalf("expected the expense row to be gone, found %d", count)
	}
}

func TestDeleteExpenseNotFound(t *testing.T) {
	r, db, _ := setupTestRouter(t)
	_, token := createTestUser(t, db, "dealer", "dealer@example.com", "secretpass")

	w := doRequest(r, http.MethodDelete, "/expenses/delete/9999/", "", token)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", w.Code)
	}
	var resp map[string]string
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	if resp["detail"] != "No Expense matches the given query." {
		t.Fatalf("unexpected detail: %q", resp["detail"])
	}

	// An id carrying SQL must read as no match, never reach the store raw
	w = doRequest(r, http.MethodDelete, "/expenses/delete/9999%20OR%201=1/", "", token)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d body=%s", w.Code, w.Body.String())
	}
	resp = nil
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	if resp["detail"] != "No Expense matches the given query." {
		t.Fatalf("unexpected detail: %q", resp["detail"])
	}
}
