package main

import (
	"context"
	"fmt"

	"github.com/caslabs/ipfs-node-client/node"
)

const nodeAddr = "http://127.0.0.1:5001"

func main() {
	ctx := context.Background()
	client := node.MustNewClient(nodeAddr)

	link, err := client.Add(ctx, "greeting.txt", "hello content-addressable world")
	if err != nil {
		fmt.Println("add failed:", err)
		return
	}
	fmt.Printf("stored %v as %v (%v bytes)\n", link.Name, link.Hash, link.Size)

	content, err := client.Cat(ctx, link.Hash)
	if err != nil {
		fmt.Println("cat failed:", err)
		return
	}
	fmt.Println(content)

	fmt.Println(client.Version(ctx))
}
