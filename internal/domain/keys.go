package domain

// KeyPrefix namespaces all khoj keys in the shared key-value store.
const KeyPrefix = "khoj:"
