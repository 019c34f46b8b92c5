package email

const (
	subjectWelcomeFmt             = "🚀 Your %s Roadmap is Here, %s!"
	subjectResourceDeliveryFmt    = "📚 Advanced %s Resources for %s"
	subjectSocialProofFmt         = "How %s Can Follow in These Footsteps: Success Stories"
	subjectBookingReminderFmt     = "%s, Your Free Career Consultation is Still Available"
	subjectFinalOfferFmt          = "Last Call: Your Career Breakthrough Awaits, %s"
	subjectBookingConfirmationFmt = "✅ Your Career Consultation is Confirmed, %s!"
	subjectPostCallFollowUpFmt    = "%s, Here's Your Next Step"
)
