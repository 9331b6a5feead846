// Package mocks provides gomock doubles for the dashboard's ports.
//
// To regenerate mocks after interface changes, run:
//
//	go generate ./internal/mocks
//
// Usage in tests:
//
//	ctrl := gomock.NewController(t)
//	lookup := mocks.NewMockGuildMemberLookup(ctrl)
//	lookup.EXPECT().LookupMember(gomock.Any(), "guild", "token").Return(member, nil)
package mocks

// Generate mock for GuildMemberLookup interface from internal/ports package.
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=guild_member_lookup_mock.go github.com/EZLFP/discord-bot-dashboard/internal/ports GuildMemberLookup

// Generate mock for AnalyticsReader interface from internal/ports package.
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=analytics_reader_mock.go github.com/EZLFP/discord-bot-dashboard/internal/ports AnalyticsReader

// Generate mock for Cache interface from internal/ports package.
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=cache_mock.go github.com/EZLFP/discord-bot-dashboard/internal/ports Cache
