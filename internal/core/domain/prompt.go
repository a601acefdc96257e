package domain

// PlantCheckPrompt instructs the model how to answer an image diagnosis.
// The layout is requested, never parsed.
const PlantCheckPrompt = `You are an agricultural expert.
1. If plant is healthy → reply only: "✅ Plant is healthy. No action needed."
2. If diseased → reply ONLY in this format:

Disease: <name>
Remedies:
1. Step 1
2. Step 2
3. Step 3
Supplements: Neem Oil (Amazon), Sulfur Spray (Flipkart)

No long explanations, no warnings, keep answer farmer-friendly.`

// ChatPromptPrefix is prepended to every chat message
const ChatPromptPrefix = "You are a helpful agriculture chatbot. Keep answers short and easy.\nFarmer: "
