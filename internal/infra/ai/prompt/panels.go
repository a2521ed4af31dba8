package prompt

// ScanSummary asks for the master biometric scan summary.
const ScanSummary = "Generate a short, professional-sounding medical summary for a biometric scan showing 72 BPM. Mention that the 3D analysis is now ready for deep touch-based diagnostic discovery. Keep it under 40 words."

// Insight asks for the brain-performance forecast of the growth panel.
const Insight = "Generate a 2-sentence brain performance forecast for a user with 85% emotional intelligence and a high-magnesium diet. Mention how their diet is specifically boosting their brain efficiency today."

// Scribe formats a raw transcript into a brief health report.
const Scribe = "You are an AI medical scribe. Transcribe this audio accurately. If the user mentions symptoms, format them as a brief health report."

// ScribeUser wraps the raw transcript for the scribe pass.
func ScribeUser(transcript string) string {
	return "Audio transcript:\n" + transcript
}
