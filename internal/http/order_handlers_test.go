package http_test

import (
	"net/http"
	"strings"
	"testing"

	"github.com/plateful/plateful/internal/domain"
)

func Test_Orders_Flow(t *testing.T) {
	env := newTestEnv(t)
	defer env.Close()

	ck := env.signupAndLogin("owner2@x.com", "secret1")
	w := env.do("POST", "/api/v1/restaurant",
		`{"name":"Order Hut","city":"Dhaka","country":"Bangladesh","delivery_time":25}`, []*http.Cookie{ck})
	if w.Code != http.StatusCreated {
		t.Fatalf("create restaurant: %d %s", w.Code, w.Body.String())
	}
	owner, _ := env.Store.FindUserByEmail(env.Ctx, "owner2@x.com")
	rest, _ := env.Store.FindRestaurantByOwner(env.Ctx, owner.ID)

	// empty history is an empty list, not null
	w = env.do("GET", "/api/v1/order", "", []*http.Cookie{ck})
	if w.Code != http.StatusOK {
		t.Fatalf("list orders: %d %s", w.Code, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), `"orders":[]`) {
		t.Fatalf("want empty orders array: %s", w.Body.String())
	}

	// seed a pending order as checkout would have written it
	o := &domain.Order{
		UserID:       owner.ID,
		RestaurantID: rest.ID,
		Items: []domain.CartItem{
			{Name: "Paneer Tikka", Price: 15900, Quantity: 2},
		},
		Delivery: domain.DeliveryDetails{
			Name: "Test User", Email: "owner2@x.com", Address: "12 Lake Rd", City: "Dhaka",
		},
		TotalAmount: 31800,
		Status:      domain.OrderPending,
	}
	if err := env.Store.CreateOrder(env.Ctx, o); err != nil {
		t.Fatal(err)
	}
	if err := env.Store.SetOrderSession(env.Ctx, o.ID, "cs_test_1"); err != nil {
		t.Fatal(err)
	}

	// payment confirmation flips pending -> confirmed exactly once
	got, err := env.Store.ConfirmOrderBySession(env.Ctx, "cs_test_1")
	if err != nil {
		t.Fatal(err)
	}
	if got == nil || got.Status != domain.OrderConfirmed {
		t.Fatalf("confirm: %+v", got)
	}
	again, err := env.Store.ConfirmOrderBySession(env.Ctx, "cs_test_1")
	if err != nil {
		t.Fatal(err)
	}
	if again != nil {
		t.Fatalf("replayed confirmation must be a no-op, got %+v", again)
	}

	// order now shows up for the user
	w = env.do("GET", "/api/v1/order", "", []*http.Cookie{ck})
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), "Paneer Tikka") {
		t.Fatalf("user orders: %d %s", w.Code, w.Body.String())
	}
	// stripe session id stays server-side
	if strings.Contains(w.Body.String(), "cs_test_1") {
		t.Fatalf("stripe session id leaked: %s", w.Body.String())
	}

	// and for the restaurant admin
	w = env.do("GET", "/api/v1/order/restaurant", "", []*http.Cookie{ck})
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), "Paneer Tikka") {
		t.Fatalf("restaurant orders: %d %s", w.Code, w.Body.String())
	}

	// bogus status is rejected
	w = env.do("PUT", "/api/v1/order/"+o.ID.Hex()+"/status", `{"status":"teleported"}`, []*http.Cookie{ck})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("bogus status: %d %s", w.Code, w.Body.String())
	}

	// valid transition
	w = env.do("PUT", "/api/v1/order/"+o.ID.Hex()+"/status", `{"status":"outfordelivery"}`, []*http.Cookie{ck})
	if w.Code != http.StatusOK {
		t.Fatalf("status update: %d %s", w.Code, w.Body.String())
	}
	orders, _ := env.Store.ListOrdersByUser(env.Ctx, owner.ID)
	if len(orders) != 1 || orders[0].Status != domain.OrderOutForDelivery {
		t.Fatalf("status not persisted: %+v", orders)
	}
}

func Test_Checkout_Validation(t *testing.T) {
	env := newTestEnv(t)
	defer env.Close()

	ck := env.signupAndLogin("buyer@x.com", "secret1")

	// empty cart
	w := env.do("POST", "/api/v1/order/checkout/create-checkout-session",
		`{"restaurant_id":"64b000000000000000000000","delivery_details":{"name":"B","email":"b@x.com","address":"1 St","city":"Dhaka"},"cart_items":[]}`,
		[]*http.Cookie{ck})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("empty cart: %d %s", w.Code, w.Body.String())
	}

	// missing delivery details
	w = env.do("POST", "/api/v1/order/checkout/create-checkout-session",
		`{"restaurant_id":"64b000000000000000000000","delivery_details":{"name":"B"},"cart_items":[{"menu_id":"64b000000000000000000001","quantity":1}]}`,
		[]*http.Cookie{ck})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("missing delivery: %d %s", w.Code, w.Body.String())
	}

	// unknown restaurant
	w = env.do("POST", "/api/v1/order/checkout/create-checkout-session",
		`{"restaurant_id":"64b000000000000000000000","delivery_details":{"name":"B","email":"b@x.com","address":"1 St","city":"Dhaka"},"cart_items":[{"menu_id":"64b000000000000000000001","quantity":1}]}`,
		[]*http.Cookie{ck})
	if w.Code != http.StatusNotFound {
		t.Fatalf("unknown restaurant: %d %s", w.Code, w.Body.String())
	}

	// no pending order left behind by rejected requests
	buyer, _ := env.Store.FindUserByEmail(env.Ctx, "buyer@x.com")
	orders, _ := env.Store.ListOrdersByUser(env.Ctx, buyer.ID)
	if len(orders) != 0 {
		t.Fatalf("rejected checkout wrote orders: %+v", orders)
	}
}
