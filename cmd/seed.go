/*
Copyright 2024 Blnk Finance Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package main

import (
	"context"
	"log"

	"github.com/spf13/cobra"
)

// seedCommands provisions the default asset types, system accounts and demo users.
func seedCommands(b *walletInstance) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "seed default asset types and accounts",
		Run: func(cmd *cobra.Command, args []string) {
			if err := b.wallet.Seed(context.Background()); err != nil {
				log.Fatalf("Seeding failed: %v", err)
			}
		},
	}
	return cmd
}
