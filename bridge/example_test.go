package bridge_test

import (
	"fmt"

	"github.com/vk/blocktest/bridge"
)

func ExampleProtect() {
	bridge.Protect(
		func() { bridge.Raise("Timeout", "no reply", nil) },
		func(sig *bridge.Signal) { fmt.Println("caught", sig) },
		func() { fmt.Println("finally") },
	)
	// Output:
	// caught Timeout: no reply
	// finally
}

func ExampleRun() {
	err := bridge.Run(func() {
		var m map[string]int
		m["k"] = 1
	})
	if sig, ok := bridge.AsSignal(err); ok {
		fmt.Println(sig.Name)
	}
	// Output:
	// runtime.Error
}
