// Package config resolves the bot's YAML configuration file into a validated,
// strongly typed snapshot. Resolution is a one-shot startup operation: the
// document is parsed, the MATRIX_BOT_* environment override layer is merged
// in, defaults are applied, and every field is type-checked before the result
// is handed to any other component. All violations are collected into a
// single aggregated error so a broken file can be fixed in one pass.
package config
