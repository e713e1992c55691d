// Package model provides the built-in model catalog and token rates.
//
// Models know their provider and their per-1K token rate:
//
//	cost := model.ClaudeSonnet45.Cost(inputTokens, outputTokens)
//
// A [RateTable] layers configured rates over the catalog and resolves a rate
// for any provider/model pair, falling back to the provider's default rate
// and finally to zero:
//
//	table, err := model.NewRateTable(cfg.Rates, cfg.ProviderRates)
//	cost := table.Cost("openai", "gpt-5-mini", in, out)
package model
