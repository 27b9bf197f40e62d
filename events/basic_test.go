package events

import "testing"

func TestSubscribeAndEmit(t *testing.T) {
	bus := NewBus()

	sub1, err := bus.Subscribe(&TransactionSubmitted{})
	if err != nil {
		t.Fatal(err)
	}

	sub2, err := bus.Subscribe(&TransactionConfirmed{})
	if err != nil {
		t.Fatal(err)
	}

	go func() {
		bus.Emit(&TransactionSubmitted{TransactionID: "abc"})
		bus.Emit(&TransactionConfirmed{TransactionID: "abc", Confirmations: 1})
	}()

	notif1 := <-sub1.Out()
	submitted, ok := notif1.(*TransactionSubmitted)
	if !ok {
		t.Error("Notification is wrong type")
	}
	if submitted.TransactionID != "abc" {
		t.Errorf("Expected transaction ID abc, got %s", submitted.TransactionID)
	}

	notif2 := <-sub2.Out()
	confirmed, ok := notif2.(*TransactionConfirmed)
	if !ok {
		t.Error("Notification is wrong type")
	}
	if confirmed.Confirmations != 1 {
		t.Errorf("Expected 1 confirmation, got %d", confirmed.Confirmations)
	}

	if err := sub1.Close(); err != nil {
		t.Error(err)
	}

	if err := sub2.Close(); err != nil {
		t.Error(err)
	}
}

func TestSubscribeNonPointer(t *testing.T) {
	bus := NewBus()

	if _, err := bus.Subscribe(TransactionSubmitted{}); err == nil {
		t.Error("Expected error subscribing with a non-pointer type")
	}
}
