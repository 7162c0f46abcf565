package inspection

import (
	"context"
	"testing"
	"time"

	"github.com/surveyorhq/surveyor/internal/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func openTestStore(t *testing.T) (*Store, *gorm.DB) {
	t.Helper()
	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if err := gdb.AutoMigrate(
		&models.Inspector{},
		&models.Customer{},
		&models.Contract{},
		&models.WorkOrder{},
		&models.Location{},
		&models.SubLocation{},
		&models.Task{},
		&models.TaskEntry{},
		&models.LocationEntry{},
		&models.MediaAttachment{},
	); err != nil {
		t.Fatalf("auto migrate: %v", err)
	}
	store, err := NewStore(gdb)
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	return store, gdb
}

func seedInspector(t *testing.T, gdb *gorm.DB, code string) models.Inspector {
	t.Helper()
	insp := models.Inspector{Name: "Dana", Phone: "+15550100", AccessCode: code, Active: true}
	if err := gdb.Create(&insp).Error; err != nil {
		t.Fatalf("seed inspector: %v", err)
	}
	return insp
}

func seedOrder(t *testing.T, gdb *gorm.DB, inspectorID uint, number, status string, scheduled time.Time) models.WorkOrder {
	t.Helper()
	customer := models.Customer{Name: "Acme Property"}
	if err := gdb.Create(&customer).Error; err != nil {
		t.Fatalf("seed customer: %v", err)
	}
	contract := models.Contract{CustomerID: customer.ID, Reference: "C-" + number, Property: "12 Elm St", Active: true}
	if err := gdb.Create(&contract).Error; err != nil {
		t.Fatalf("seed contract: %v", err)
	}
	order := models.WorkOrder{
		Number:       number,
		ContractID:   contract.ID,
		InspectorID:  inspectorID,
		Status:       status,
		ScheduledFor: scheduled,
	}
	if err := gdb.Create(&order).Error; err != nil {
		t.Fatalf("seed order: %v", err)
	}
	return order
}

func TestNewStore_NilDB(t *testing.T) {
	if _, err := NewStore(nil); err == nil {
		t.Fatal("expected error for nil db")
	}
}

func TestFindInspectorByCode(t *testing.T) {
	ctx := context.Background()
	store, gdb := openTestStore(t)
	seedInspector(t, gdb, "D-100")

	got, err := store.FindInspectorByCode(ctx, "D-100")
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if got == nil || got.Name != "Dana" {
		t.Errorf("got %+v, want Dana", got)
	}

	missing, err := store.FindInspectorByCode(ctx, "nope")
	if err != nil {
		t.Fatalf("find missing: %v", err)
	}
	if missing != nil {
		t.Errorf("expected nil for unknown code, got %+v", missing)
	}
}

func TestFindInspectorByCode_InactiveExcluded(t *testing.T) {
	ctx := context.Background()
	store, gdb := openTestStore(t)
	insp := models.Inspector{Name: "Gone", AccessCode: "G-1", Active: false}
	if err := gdb.Create(&insp).Error; err != nil {
		t.Fatalf("seed: %v", err)
	}
	got, err := store.FindInspectorByCode(ctx, "G-1")
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if got != nil {
		t.Errorf("inactive inspector resolved: %+v", got)
	}
}

func TestFindActiveJobs_DayWindow(t *testing.T) {
	ctx := context.Background()
	store, gdb := openTestStore(t)
	insp := seedInspector(t, gdb, "D-100")

	day := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	seedOrder(t, gdb, insp.ID, "WO-1", models.WorkOrderPending, day.Add(-2*time.Hour))
	seedOrder(t, gdb, insp.ID, "WO-2", models.WorkOrderInProgress, day.Add(3*time.Hour))
	seedOrder(t, gdb, insp.ID, "WO-3", models.WorkOrderCompleted, day)               // wrong status
	seedOrder(t, gdb, insp.ID, "WO-4", models.WorkOrderPending, day.AddDate(0, 0, 1)) // tomorrow
	seedOrder(t, gdb, insp.ID, "WO-5", models.WorkOrderPending, day.AddDate(0, 0, -1)) // yesterday

	jobs, err := store.FindActiveJobs(ctx, insp.ID, day)
	if err != nil {
		t.Fatalf("find active jobs: %v", err)
	}
	if len(jobs) != 2 {
		t.Fatalf("got %d jobs, want 2: %+v", len(jobs), jobs)
	}
	if jobs[0].Number != "WO-1" || jobs[1].Number != "WO-2" {
		t.Errorf("jobs out of order: %s, %s", jobs[0].Number, jobs[1].Number)
	}
}

func TestStartJob_Idempotent(t *testing.T) {
	ctx := context.Background()
	store, gdb := openTestStore(t)
	insp := seedInspector(t, gdb, "D-100")
	order := seedOrder(t, gdb, insp.ID, "WO-1", models.WorkOrderPending, time.Now())

	if err := store.StartJob(ctx, order.ID); err != nil {
		t.Fatalf("start: %v", err)
	}
	var got models.WorkOrder
	gdb.First(&got, order.ID)
	if got.Status != models.WorkOrderInProgress {
		t.Fatalf("status = %q, want in_progress", got.Status)
	}
	firstStart := got.StartedAt

	// A second start must not error and must not reset the start time.
	if err := store.StartJob(ctx, order.ID); err != nil {
		t.Fatalf("restart: %v", err)
	}
	gdb.First(&got, order.ID)
	if got.StartedAt == nil || firstStart == nil || !got.StartedAt.Equal(*firstStart) {
		t.Errorf("started_at changed on repeated start: %v -> %v", firstStart, got.StartedAt)
	}
}

func TestInProgressJobConflict(t *testing.T) {
	ctx := context.Background()
	store, gdb := openTestStore(t)
	insp := seedInspector(t, gdb, "D-100")

	got, err := store.InProgressJob(ctx, insp.ID)
	if err != nil {
		t.Fatalf("in-progress: %v", err)
	}
	if got != nil {
		t.Errorf("expected no in-progress job, got %+v", got)
	}

	seedOrder(t, gdb, insp.ID, "WO-1", models.WorkOrderInProgress, time.Now())
	got, err = store.InProgressJob(ctx, insp.ID)
	if err != nil {
		t.Fatalf("in-progress: %v", err)
	}
	if got == nil || got.Number != "WO-1" {
		t.Errorf("got %+v, want WO-1", got)
	}
}

func TestCompleteJob(t *testing.T) {
	ctx := context.Background()
	store, gdb := openTestStore(t)
	insp := seedInspector(t, gdb, "D-100")
	order := seedOrder(t, gdb, insp.ID, "WO-1", models.WorkOrderInProgress, time.Now())

	if err := store.CompleteJob(ctx, order.ID); err != nil {
		t.Fatalf("complete: %v", err)
	}
	var got models.WorkOrder
	gdb.First(&got, order.ID)
	if got.Status != models.WorkOrderCompleted || got.CompletedAt == nil {
		t.Errorf("order not completed: %+v", got)
	}

	// Completing again should fail: it is no longer in progress.
	if err := store.CompleteJob(ctx, order.ID); err == nil {
		t.Error("expected error completing a completed order")
	}
}

func TestChecklistTreeQueries(t *testing.T) {
	ctx := context.Background()
	store, gdb := openTestStore(t)
	insp := seedInspector(t, gdb, "D-100")
	order := seedOrder(t, gdb, insp.ID, "WO-1", models.WorkOrderPending, time.Now())

	roof := models.Location{WorkOrderID: order.ID, Name: "Roof", Position: 2}
	basement := models.Location{WorkOrderID: order.ID, Name: "Basement", Position: 1}
	gdb.Create(&roof)
	gdb.Create(&basement)
	gutters := models.SubLocation{LocationID: roof.ID, Name: "Gutters", Position: 1}
	gdb.Create(&gutters)
	gdb.Create(&models.Task{SubLocationID: gutters.ID, Name: "Check brackets", Position: 2})
	gdb.Create(&models.Task{SubLocationID: gutters.ID, Name: "Clear debris", Position: 1})

	locs, err := store.Locations(ctx, order.ID)
	if err != nil {
		t.Fatalf("locations: %v", err)
	}
	if len(locs) != 2 || locs[0].Name != "Basement" || locs[1].Name != "Roof" {
		t.Errorf("locations = %+v, want Basement then Roof", locs)
	}

	subs, err := store.SubLocations(ctx, roof.ID)
	if err != nil {
		t.Fatalf("sub-locations: %v", err)
	}
	if len(subs) != 1 || subs[0].Name != "Gutters" {
		t.Errorf("sub-locations = %+v", subs)
	}

	tasks, err := store.Tasks(ctx, gutters.ID)
	if err != nil {
		t.Fatalf("tasks: %v", err)
	}
	if len(tasks) != 2 || tasks[0].Name != "Clear debris" {
		t.Errorf("tasks = %+v, want Clear debris first", tasks)
	}
}

func TestInspectorsWithJobs(t *testing.T) {
	ctx := context.Background()
	store, gdb := openTestStore(t)
	busy := seedInspector(t, gdb, "D-100")
	idle := models.Inspector{Name: "Idle", AccessCode: "I-1", Active: true}
	gdb.Create(&idle)

	day := time.Date(2026, 3, 2, 7, 0, 0, 0, time.UTC)
	seedOrder(t, gdb, busy.ID, "WO-1", models.WorkOrderPending, day.Add(2*time.Hour))

	got, err := store.InspectorsWithJobs(ctx, day)
	if err != nil {
		t.Fatalf("inspectors with jobs: %v", err)
	}
	if len(got) != 1 || got[0].ID != busy.ID {
		t.Errorf("got %+v, want only the busy inspector", got)
	}
}
