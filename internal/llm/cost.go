package llm

// pricePerMillion is USD per 1M tokens, input then output.
var pricePerMillion = map[string][2]float64{
	"gpt-4o-mini":                {0.15, 0.60},
	"gpt-4o":                     {2.50, 10.00},
	"claude-haiku-4-5-20251001":  {0.80, 4.00},
	"claude-sonnet-4-5-20250929": {3.00, 15.00},
	"gemini-2.0-flash":           {0.10, 0.40},
	"gemini-2.5-pro":             {1.25, 10.00},
}

// EstimateCost returns what a call cost in USD. Local and unknown models
// cost 0.
func EstimateCost(model string, inputTokens, outputTokens int) float64 {
	price, ok := pricePerMillion[model]
	if !ok {
		return 0
	}
	return (float64(inputTokens)*price[0] + float64(outputTokens)*price[1]) / 1e6
}
