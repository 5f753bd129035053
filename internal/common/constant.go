package common

// AccessTokenHeaderName is the gRPC metadata key carrying the access token.
const AccessTokenHeaderName = "access_token"

// EntriesCollection is the per-user collection holding diary entries.
const EntriesCollection = "diaries"
