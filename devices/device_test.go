package devices

import (
	"testing"

	"github.com/pkg/errors"
)

type testDevice struct {
	id       ID
	err      error
	started  bool
	updates  int
	lastSeen Machine
}

func (d *testDevice) ID() ID { return d.id }

func (d *testDevice) Startup() error {
	d.started = true
	return d.err
}

func (d *testDevice) Shutdown() error {
	d.started = false
	return d.err
}

func (d *testDevice) Update(m Machine) {
	d.updates++
	d.lastSeen = m
}

func TestID(t *testing.T) {
	id := NewID(0xfffe, 0x0003)

	if id.Manufacturer() != 0xfffe || id.Serial() != 0x0003 {
		t.Fatalf("components: want fffe/0003; have %04x/%04x", id.Manufacturer(), id.Serial())
	}
	if id.String() != "fffe:0003" {
		t.Fatalf("String: want fffe:0003; have %s", id)
	}
	if NewID(0x1fffe, 0x10003) != id {
		t.Fatalf("components are not truncated to 16 bits")
	}
}

func TestMapConnect(t *testing.T) {
	var dm Map

	a := &testDevice{id: NewID(0xfffe, 1)}
	b := &testDevice{id: NewID(0xfffe, 2)}

	if !dm.Connect(a) || !dm.Connect(b) {
		t.Fatalf("Connect rejected a new device")
	}
	if dm.Connect(&testDevice{id: a.id}) {
		t.Fatalf("Connect accepted a duplicate id")
	}

	if dm.Find(b.id) != 1 {
		t.Fatalf("Find: want 1; have %d", dm.Find(b.id))
	}
	if dm.Find(NewID(1, 1)) != -1 {
		t.Fatalf("Find located an unknown device")
	}

	dm.Update(nil)
	if a.updates != 1 || b.updates != 1 {
		t.Fatalf("Update not delivered to every device")
	}
}

func TestMapStartupErrors(t *testing.T) {
	errBroken := errors.New("broken")

	var dm Map
	dm.Connect(&testDevice{id: NewID(0xfffe, 1), err: errBroken})
	dm.Connect(&testDevice{id: NewID(0xfffe, 2)})
	dm.Connect(&testDevice{id: NewID(0xfffe, 3), err: errBroken})

	err := dm.Startup()

	set, ok := err.(ErrorSet)
	if !ok {
		t.Fatalf("want ErrorSet; have %T", err)
	}
	if set.Len() != 2 {
		t.Fatalf("want 2 errors; have %d", set.Len())
	}
	if errors.Cause(set[0]) != errBroken {
		t.Fatalf("error cause lost: %v", set[0])
	}

	want := "fffe:0001: broken\nfffe:0003: broken"
	if set.Error() != want {
		t.Fatalf("want %q; have %q", want, set.Error())
	}

	for _, dev := range dm {
		if !dev.(*testDevice).started {
			t.Fatalf("%s not started", dev.ID())
		}
	}
}

func TestMapShutdown(t *testing.T) {
	var dm Map
	dm.Connect(&testDevice{id: NewID(0xfffe, 1)})

	if err := dm.Startup(); err != nil {
		t.Fatal(err)
	}
	if err := dm.Shutdown(); err != nil {
		t.Fatal(err)
	}
	if dm[0].(*testDevice).started {
		t.Fatalf("device still running after shutdown")
	}
}
