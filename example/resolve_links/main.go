package main

import (
	"context"
	"fmt"

	"github.com/caslabs/ipfs-node-client/common"
	"github.com/caslabs/ipfs-node-client/node"
	"github.com/sirupsen/logrus"
)

const nodeAddr = "http://127.0.0.1:5001"

func main() {
	ctx := context.Background()
	client := node.MustNewClient(nodeAddr, node.ClientOption{
		LogOption: common.LogOption{LogLevel: logrus.DebugLevel},
	})

	dir := node.MustParseHash("QmYwAPJzv5CZsnA625s3Xf2nemtYgPpHdWEz79ojWnPbdG")

	links, err := client.Links(ctx, dir)
	if err != nil {
		fmt.Println("object/get failed:", err)
		return
	}
	for _, link := range links {
		fmt.Printf("%v -> %v (%v bytes)\n", link.Name, link.Hash, link.Size)
	}

	link, err := client.ResolveLink(ctx, dir, "about")
	if err != nil {
		fmt.Println("resolve failed:", err)
		return
	}
	if link == nil {
		fmt.Println("no link named about")
		return
	}

	content, err := client.Cat(ctx, link.Hash)
	if err != nil {
		fmt.Println("cat failed:", err)
		return
	}
	fmt.Println(content)
}
