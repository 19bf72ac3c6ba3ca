package objpipe_test

import (
	"fmt"
	"log"

	"github.com/objpipe/objpipe"
)

func Example() {
	lhs, rhs, err := objpipe.Pair(nil)
	if err != nil {
		log.Fatal(err)
	}
	defer lhs.Close()
	defer rhs.Close()

	type greeting struct {
		Text string
		Hops int
	}

	go func() {
		if err := lhs.SendObject(greeting{Text: "hello, peer", Hops: 1}); err != nil {
			log.Print("send:", err)
		}
	}()

	var got greeting
	if err := rhs.RecvObject(&got, objpipe.Forever); err != nil {
		log.Fatal(err)
	}
	fmt.Println(got.Text, got.Hops)
	// Output: hello, peer 1
}
