// Package emulator runs the client against the Cosmos DB Linux emulator.
// The tests need Docker and are built with the integration tag:
//
//	go test -tags integration ./pkg/cosmos/emulator/...
package emulator
