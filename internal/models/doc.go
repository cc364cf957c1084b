// Package models defines domain entities for the otpx migration assistant.
//
// The package contains two categories of types:
//
// 1. Decoded export data: lightweight structs produced by the migration decoder
//   - [Payload] : One decoded migration container with batch metadata
//   - [Account] : One OTP account's exported parameters, including its shared secret
//   - [Entry] : The display name and enrollment URI presented for one account
//
// 2. Journal entities: database-backed records of presentation sessions
//   - [Session] : One presentation run with its outcome
//   - [Presentation] : One account shown during a session (name and issuer only)
//
// Journal entities never carry secret material. The [Journal] interface defines
// the persistence operations used by the presenter's journal observer.
package models
