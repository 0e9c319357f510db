package console

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"strings"
	"testing"
	"time"

	"food-console/config"
	"food-console/logger"
	"food-console/models"
	"food-console/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testMenu = `Menu: Test Kitchen
Toppings: <Cheese,100>,<ExtraCheese,100>
Garnishes: <Lettuce,40>,<Bacon,150>
Pizza: Name:Margherita, Toppings:[Tomato, Cheese], Price:500
Burger: Name:Classic, Garnishes:[Lettuce, Tomato], Price:600
`

func TestMain(m *testing.M) {
	logger.SetOutput(io.Discard)
	os.Exit(m.Run())
}

type fakeStore struct {
	saved   []models.SavedOrder
	saves   string
	saveErr error
	loadErr error
}

func (s *fakeStore) SaveOrder(_ context.Context, rec models.SavedOrder) error {
	if s.saveErr != nil {
		return s.saveErr
	}
	s.saved = append(s.saved, rec)
	return nil
}

func (s *fakeStore) LoadSaves(context.Context) (string, error) {
	return s.saves, s.loadErr
}

type fakeNotifier struct {
	sent []models.SavedOrder
	err  error
}

func (n *fakeNotifier) NotifyOrderSaved(_ context.Context, rec models.SavedOrder) error {
	n.sent = append(n.sent, rec)
	return n.err
}

func runSession(t *testing.T, input string, store *fakeStore, opts ...Option) string {
	t.Helper()
	catalog, err := services.LoadCatalog(testMenu)
	require.NoError(t, err)
	var out bytes.Buffer
	c := New(strings.NewReader(input), &out, catalog, store, opts...)
	require.NoError(t, c.Run(context.Background()))
	return out.String()
}

func TestRun_ViewSavesEmpty(t *testing.T) {
	out := runSession(t, "1\n3\n", &fakeStore{})
	assert.Contains(t, out, "Welcome to Test Kitchen! Brought to you by JustNom!")
	assert.Contains(t, out, "No saved orders.")
}

func TestRun_ViewSaves(t *testing.T) {
	out := runSession(t, "1\n3\n", &fakeStore{saves: "====\nsaved block\n====\n"})
	assert.Contains(t, out, "Saved Orders:\n====\nsaved block\n====\n")
}

func TestRun_ViewSavesError(t *testing.T) {
	out := runSession(t, "1\n3\n", &fakeStore{loadErr: errors.New("disk gone")})
	assert.Contains(t, out, "Could not load saved orders: disk gone")
}

func TestRun_InvalidChoice(t *testing.T) {
	out := runSession(t, "7\n3\n", &fakeStore{})
	assert.Contains(t, out, "Invalid choice. Please try again.")
}

func TestRun_EndOfInput(t *testing.T) {
	store := &fakeStore{}
	runSession(t, "2\nAda\nno\n1\nMargherita\n", store)
	assert.Empty(t, store.saved)
}

func TestRun_CanceledContext(t *testing.T) {
	catalog, err := services.LoadCatalog(testMenu)
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	c := New(strings.NewReader("3\n"), io.Discard, catalog, &fakeStore{})
	assert.ErrorIs(t, c.Run(ctx), context.Canceled)
}

func TestRun_CanceledWhileWaitingForInput(t *testing.T) {
	catalog, err := services.LoadCatalog(testMenu)
	require.NoError(t, err)
	pr, pw := io.Pipe()
	t.Cleanup(func() { _ = pw.Close() })

	store := &fakeStore{}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() {
		done <- New(pr, io.Discard, catalog, store).Run(ctx)
	}()

	// leave the session waiting in the middle of an order
	_, err = pw.Write([]byte("2\nAda\n"))
	require.NoError(t, err)
	cancel()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
	assert.Empty(t, store.saved)
}

func TestRun_DeliveryOrderSaved(t *testing.T) {
	store := &fakeStore{}
	notifier := &fakeNotifier{}
	at := time.Date(2026, 10, 18, 12, 30, 0, 0, time.Local)
	input := strings.Join([]string{
		"2", "Alice", "yes", "1 Mill Lane",
		"1", "margherita", "add", "ExtraCheese, Pineapple",
		"3", "yes",
		"3",
	}, "\n") + "\n"

	out := runSession(t, input, store,
		WithNotifier(notifier),
		WithDelivery(config.DeliveryConfig{FreeOver: 2000, Fee: 200}),
		WithClock(func() time.Time { return at }),
	)

	assert.Contains(t, out, "Place your order here at Test Kitchen!")
	assert.Contains(t, out, "Margherita - £5.00")
	assert.Contains(t, out, "ExtraCheese - £1.00")
	assert.Contains(t, out, "Ignored unknown toppings: Pineapple")
	assert.Contains(t, out, "Added Pizza: Margherita, Extra Toppings: ExtraCheese, Price: £6.00")
	assert.Contains(t, out, "Order for Alice\n"+
		"Pizza: Margherita, Extra Toppings: ExtraCheese, Price: £6.00\n"+
		"Delivery Charge: £2.00\n"+
		"Total: £8.00")
	assert.Contains(t, out, "Order saved successfully.")

	require.Len(t, store.saved, 1)
	rec := store.saved[0]
	assert.Equal(t, "Alice", rec.CustomerName)
	assert.Equal(t, "1 Mill Lane", rec.Address)
	assert.Equal(t, int64(800), rec.GrandTotal)
	assert.Equal(t, at, rec.SavedAt)

	require.Len(t, notifier.sent, 1)
	assert.Equal(t, rec.Ref, notifier.sent[0].Ref)
}

func TestRun_CollectionOrderNotSaved(t *testing.T) {
	store := &fakeStore{}
	input := strings.Join([]string{
		"2", "Bob", "no",
		"3",
		"9",
		"2", "Classic", "remove", "Tomato",
		"3", "no",
		"3",
	}, "\n") + "\n"

	out := runSession(t, input, store)

	assert.Contains(t, out, "You cannot complete the order without selecting any items. Please add at least one item.")
	assert.Contains(t, out, "Invalid selection. Please try again.")
	assert.Contains(t, out, "Current garnishes on Classic: Lettuce, Tomato")
	assert.Contains(t, out, "Added Burger: Classic, Removed Garnishes: Tomato, Price: £6.00")
	assert.NotContains(t, out, "Delivery Charge")
	assert.Contains(t, out, "Total: £6.00")
	assert.Empty(t, store.saved)
}

func TestRun_UnknownRecipeAndInvalidDecision(t *testing.T) {
	store := &fakeStore{}
	input := strings.Join([]string{
		"2", "Cy", "no",
		"1", "Hawaiian",
		"1", "Margherita", "maybe",
		"3", "yes",
		"3",
	}, "\n") + "\n"

	out := runSession(t, input, store)

	assert.Contains(t, out, "Pizza not found. Please try again.")
	assert.Contains(t, out, "Invalid selection. Please try again.")
	assert.Contains(t, out, "Added Pizza: Margherita, Price: £5.00")
	require.Len(t, store.saved, 1)
	assert.Equal(t, int64(500), store.saved[0].GrandTotal)
}

func TestRun_SaveFailure(t *testing.T) {
	store := &fakeStore{saveErr: errors.New("read-only")}
	notifier := &fakeNotifier{}
	input := "2\nDee\nno\n1\nMargherita\nkeep\n3\nyes\n3\n"

	out := runSession(t, input, store, WithNotifier(notifier))

	assert.Contains(t, out, "Could not save the order: read-only")
	assert.NotContains(t, out, "Order saved successfully.")
	assert.Empty(t, notifier.sent)
}

func TestRun_NotifierFailureStillSaves(t *testing.T) {
	store := &fakeStore{}
	notifier := &fakeNotifier{err: errors.New("telegram down")}
	input := "2\nEve\nno\n2\nclassic\nadd\nBacon\n3\nyes\n3\n"

	out := runSession(t, input, store, WithNotifier(notifier))

	assert.Contains(t, out, "Added Burger: Classic, Extra Garnishes: Bacon, Price: £7.50")
	assert.Contains(t, out, "Order saved successfully.")
	require.Len(t, store.saved, 1)
	assert.Len(t, notifier.sent, 1)
}

func TestSplitList(t *testing.T) {
	assert.Equal(t, []string{"Cheese", "Extra Cheese"}, splitList(" Cheese ,, Extra Cheese ,"))
	assert.Nil(t, splitList("   "))
}
