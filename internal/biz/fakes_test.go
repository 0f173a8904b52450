package biz

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/generatorhealthy/selam-web-yapim-merkezi-sub005/internal/conf"
	"github.com/generatorhealthy/selam-web-yapim-merkezi-sub005/internal/constants"

	"github.com/go-kratos/kratos/v2/log"
)

// fakeOrderRepo is an in-memory order store.
type fakeOrderRepo struct {
	mu     sync.Mutex
	orders map[string]*Order

	createErr error
	lookupErr error
}

func newFakeOrderRepo() *fakeOrderRepo {
	return &fakeOrderRepo{orders: make(map[string]*Order)}
}

func (r *fakeOrderRepo) CreateOrder(ctx context.Context, order *Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return r.createErr
	}
	cp := *order
	r.orders[order.ID] = &cp
	return nil
}

func (r *fakeOrderRepo) GetOrder(ctx context.Context, orderID string) (*Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.orders[orderID]
	if !ok {
		return nil, nil
	}
	cp := *o
	return &cp, nil
}

func (r *fakeOrderRepo) GetOrderByPaymentToken(ctx context.Context, token string) (*Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.lookupErr != nil {
		return nil, r.lookupErr
	}
	for _, o := range r.orders {
		if o.PaymentTransactionID == token {
			cp := *o
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeOrderRepo) SetPaymentTransactionID(ctx context.Context, orderID, token string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.orders[orderID]
	if !ok {
		return fmt.Errorf("order %s not found", orderID)
	}
	if o.PaymentTransactionID == "" {
		o.PaymentTransactionID = token
	}
	return nil
}

func (r *fakeOrderRepo) UpdateStatus(ctx context.Context, orderID, status string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.orders[orderID]
	if !ok {
		return fmt.Errorf("order %s not found", orderID)
	}
	o.Status = status
	return nil
}

func (r *fakeOrderRepo) ClaimActivation(ctx context.Context, orderID string, approvedAt time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.orders[orderID]
	if !ok {
		return false, fmt.Errorf("order %s not found", orderID)
	}
	if o.ContractEmailsSent {
		return false, nil
	}
	o.Status = constants.OrderStatusApproved
	at := approvedAt
	o.ApprovedAt = &at
	o.ContractEmailsSent = true
	return true, nil
}

func (r *fakeOrderRepo) SetInvoiceMeta(ctx context.Context, orderID, invoiceNumber string, invoiceDate time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.orders[orderID]
	if !ok {
		return false, fmt.Errorf("order %s not found", orderID)
	}
	if o.InvoiceSent {
		return false, nil
	}
	o.InvoiceSent = true
	o.InvoiceNumber = invoiceNumber
	d := invoiceDate
	o.InvoiceDate = &d
	return true, nil
}

func (r *fakeOrderRepo) ListBankTransferOrdersCreatedOn(ctx context.Context, day time.Time) ([]*Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*Order
	for _, o := range r.orders {
		if o.PaymentMethod == constants.PaymentMethodBankTransfer &&
			o.CreatedAt.Year() == day.Year() && o.CreatedAt.YearDay() == day.YearDay() {
			cp := *o
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *fakeOrderRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.orders)
}

func (r *fakeOrderRepo) get(orderID string) *Order {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.orders[orderID]
}

func (r *fakeOrderRepo) put(o *Order) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.orders[o.ID] = o
}

// fakeAutomaticOrderRepo is an in-memory recurring schedule store.
type fakeAutomaticOrderRepo struct {
	mu        sync.Mutex
	schedules []*AutomaticOrder

	generated   int
	generateErr error
	createErr   error
}

func newFakeAutomaticOrderRepo() *fakeAutomaticOrderRepo {
	return &fakeAutomaticOrderRepo{}
}

func (r *fakeAutomaticOrderRepo) CreateAutomaticOrder(ctx context.Context, ao *AutomaticOrder) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return r.createErr
	}
	cp := *ao
	cp.ID = uint64(len(r.schedules) + 1)
	r.schedules = append(r.schedules, &cp)
	return nil
}

func (r *fakeAutomaticOrderRepo) GetByCustomerEmail(ctx context.Context, email string) (*AutomaticOrder, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, ao := range r.schedules {
		if ao.CustomerEmail == email {
			cp := *ao
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeAutomaticOrderRepo) GenerateDueOrders(ctx context.Context, day time.Time) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.generateErr != nil {
		return 0, r.generateErr
	}
	return r.generated, nil
}

func (r *fakeAutomaticOrderRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.schedules)
}

// fakeSpecialistRepo resolves specialists from a fixed set.
type fakeSpecialistRepo struct {
	byEmail map[string]*Specialist
	byName  map[string]*Specialist
}

func newFakeSpecialistRepo() *fakeSpecialistRepo {
	return &fakeSpecialistRepo{
		byEmail: make(map[string]*Specialist),
		byName:  make(map[string]*Specialist),
	}
}

func (r *fakeSpecialistRepo) FindByEmail(ctx context.Context, email string) (*Specialist, error) {
	return r.byEmail[email], nil
}

func (r *fakeSpecialistRepo) FindByName(ctx context.Context, fullName string) (*Specialist, error) {
	for name, sp := range r.byName {
		if strings.Contains(name, fullName) {
			return sp, nil
		}
	}
	return nil, nil
}

// fakeGateway records initialize calls.
type fakeGateway struct {
	mu    sync.Mutex
	calls []*CheckoutRequest

	form *CheckoutForm
	err  error
}

func newFakeGateway(token string) *fakeGateway {
	return &fakeGateway{
		form: &CheckoutForm{CheckoutFormContent: "<form>checkout</form>", Token: token},
	}
}

func (g *fakeGateway) InitializeSubscription(ctx context.Context, req *CheckoutRequest) (*CheckoutForm, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.calls = append(g.calls, req)
	if g.err != nil {
		return nil, g.err
	}
	return g.form, nil
}

func (g *fakeGateway) callCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.calls)
}

// fakeSmsClient records sent messages.
type fakeSmsClient struct {
	mu   sync.Mutex
	sent []string // "phone|message"
	err  error
}

func (c *fakeSmsClient) Send(ctx context.Context, phone, message string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return c.err
	}
	c.sent = append(c.sent, phone+"|"+message)
	return nil
}

func (c *fakeSmsClient) sentCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.sent)
}

// fakeEmailClient records dispatched emails.
type fakeEmailClient struct {
	mu           sync.Mutex
	sent         []*ContractEmail
	invoicesSent []*InvoiceEmail
	err          error
}

func (c *fakeEmailClient) SendContractEmail(ctx context.Context, msg *ContractEmail) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return c.err
	}
	c.sent = append(c.sent, msg)
	return nil
}

func (c *fakeEmailClient) SendInvoiceEmail(ctx context.Context, msg *InvoiceEmail) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return c.err
	}
	c.invoicesSent = append(c.invoicesSent, msg)
	return nil
}

func (c *fakeEmailClient) sentCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.sent)
}

func (c *fakeEmailClient) invoiceCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.invoicesSent)
}

// fakeTx runs the function without a real transaction.
type fakeTx struct{}

func (fakeTx) Exec(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// testEnv bundles a usecase with its fakes.
type testEnv struct {
	uc         *OrderUsecase
	orders     *fakeOrderRepo
	autoOrders *fakeAutomaticOrderRepo
	specs      *fakeSpecialistRepo
	gateway    *fakeGateway
	sms        *fakeSmsClient
	email      *fakeEmailClient
}

func testConfig() *conf.Bootstrap {
	c := &conf.Bootstrap{
		Client: &conf.Client{
			PaymentGateway: &conf.PaymentGateway{
				BaseUrl:   "https://gateway.test",
				ApiKey:    "test-api-key",
				SecretKey: "test-secret-key",
			},
		},
		App: &conf.App{
			PaymentSuccessUrl: "https://doktorumol.test/odeme-basarili",
			PaymentErrorUrl:   "https://doktorumol.test/odeme-hatasi",
			HomeUrl:           "https://doktorumol.test",
			CheckoutReturnUrl: "https://doktorumol.test/api/payment/webhook",
		},
	}
	return c
}

func newTestEnv() *testEnv {
	env := &testEnv{
		orders:     newFakeOrderRepo(),
		autoOrders: newFakeAutomaticOrderRepo(),
		specs:      newFakeSpecialistRepo(),
		gateway:    newFakeGateway("tok-1"),
		sms:        &fakeSmsClient{},
		email:      &fakeEmailClient{},
	}
	env.uc = NewOrderUsecase(
		env.orders,
		env.autoOrders,
		env.specs,
		env.gateway,
		env.sms,
		env.email,
		fakeTx{},
		nil, // no lock backend in tests
		testConfig(),
		log.NewStdLogger(io.Discard),
	)
	return env
}
