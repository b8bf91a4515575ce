// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// The orbit-sync push client: pairs with a host using the on-screen PIN and
// uploads a transaction batch read from a JSON file. Mirrors what the mobile
// app does over the same three routes.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/MKhiriev/orbit-sync/internal/adapter"
	"github.com/MKhiriev/orbit-sync/internal/logger"
	"github.com/MKhiriev/orbit-sync/models"
)

func main() {
	var (
		hostAddress = flag.String("host", "", "sync host address, e.g. http://192.168.1.23:8080")
		pin         = flag.String("pin", "", "6-digit PIN shown on the host screen")
		deviceName  = flag.String("device", "orbit-sync-cli", "display name reported to the host")
		payloadPath = flag.String("payload", "", "path to a JSON file with the transaction batch")
		timeout     = flag.Duration("timeout", 30*time.Second, "request timeout")
	)
	flag.Parse()

	log := logger.NewLogger("sync-client")

	if *hostAddress == "" || *pin == "" || *payloadPath == "" {
		flag.Usage()
		log.Fatal().Msg("-host, -pin and -payload are required")
	}

	payload, err := readPayload(*payloadPath, *deviceName)
	if err != nil {
		log.Fatal().Err(err).Msg("error reading payload file")
	}

	host, err := adapter.NewHTTPSyncAdapter(*hostAddress, *timeout, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating sync adapter")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*(*timeout))
	defer cancel()

	ping, err := host.Ping(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("sync host is not reachable")
	}
	fmt.Printf("Found %s %s at %s\n", ping.Service, ping.Version, *hostAddress)

	pairResp, err := host.Pair(ctx, *pin, *deviceName)
	if err != nil {
		log.Fatal().Err(err).Str("reason", pairResp.Message).Msg("pairing failed")
	}
	fmt.Printf("Paired as %q, session valid for %ds\n", *deviceName, pairResp.ExpiresIn)

	syncResp, err := host.PushSync(ctx, payload)
	if err != nil {
		log.Fatal().Err(err).Str("reason", syncResp.Message).Msg("sync failed")
	}

	if !syncResp.PendingApproval {
		fmt.Println(syncResp.Message)
		return
	}

	fmt.Printf("%s\n\n", syncResp.Message)
	for _, c := range syncResp.Conflicts {
		fmt.Printf("  [%s] %s\n", c.ConflictType.Type, c.Description)
		if c.Suggestion != "" {
			fmt.Printf("         %s\n", c.Suggestion)
		}
	}
	fmt.Println("\nThe batch is waiting for approval on the host.")
}

func readPayload(path, deviceName string) (models.SyncDataPayload, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return models.SyncDataPayload{}, err
	}

	var payload models.SyncDataPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return models.SyncDataPayload{}, fmt.Errorf("decoding %s: %w", path, err)
	}

	if payload.DeviceName == "" {
		payload.DeviceName = deviceName
	}
	if payload.Timestamp == 0 {
		payload.Timestamp = time.Now().UnixMilli()
	}

	return payload, nil
}
