package story

// Intro is narrated on every RESET.
const Intro = "System Online. Operator, a critical anomaly has been detected: THOMAS ANDERSON. Morpheus is initiating contact. Follow instructions to guide him out. Type **'ACCEPT'** to begin."

// Offline is the reply to anything but RESET at StageOffline.
const Offline = "System Offline. Enter **'RESET'** to initiate new simulation."

// EmptyDisplay and EmptySpeech answer a blank submission, which never reaches
// the machine.
const (
	EmptyDisplay = "> Command required. Type 'RESET' to begin."
	EmptySpeech  = "Command required. Type RESET to begin."
)

// FlavorLines are the off-script quips used by the fallback policy.
var FlavorLines = []string{
	"There is a difference between knowing the path and walking the path.",
	"Do not try to bend the spoon, that's impossible.",
	"The Matrix has you.",
	"She's waiting for you.",
}

// CoachingSuffix follows every flavor line.
const CoachingSuffix = "\n\n(Follow the stage commands to advance the story.)"

// Mission-log details.
const (
	DetailFailure = "Chose Ignorance (Blue Pill)."
	DetailSuccess = "Matrix Override Complete."
)

// beat is one stage's row of the transition table.
type beat struct {
	advance  string // command that moves the story forward
	response string // narrated on advance
	next     Stage  // stage after advance

	divert         string // optional second command
	divertResponse string
	divertNext     Stage
	divertEffects  []Effect
	divertDetail   string

	effects []Effect // fired on advance
	detail  string

	nudge string // reply to anything else
}

var beats = [...]beat{
	StageContact: {
		advance:  "ACCEPT",
		response: "Morpheus: 'This is your last chance. After this, there is no turning back.'\n\n**DILEMMA:** Neo must choose between the red pill (TRUTH) or the blue pill (IGNORANCE).\n\nType **'RED'** to show him the truth, or **'BLUE'** to terminate the connection.",
		next:     StagePills,
		nudge:    "Command not recognized. We must guide him, Operator. Type **'ACCEPT'** to give him the choice.",
	},
	StagePills: {
		advance:        "RED",
		response:       "Morpheus: 'Welcome to the real world.'\n\n**SCENARIO:** Neo is in the Construct. He must learn to break the rules of the simulation. Morpheus tells him to jump across buildings.\n\n**CHALLENGE:** Instruct Neo to make the leap. Type **'JUMP'** to attempt the impossible, or **'HESITATE'** to fail the test.",
		next:           StageConstruct,
		divert:         "BLUE",
		divertResponse: "Session terminated. Anderson returns to his sleep. Morpheus leaves. The chance is lost.\n\n[Mission Failure: Chose Ignorance]\n\nType **'RESET'** to start a new contact attempt.",
		divertNext:     StageOffline,
		divertEffects:  []Effect{EffectFailCue, EffectLogFailure},
		divertDetail:   DetailFailure,
		nudge:          "Invalid choice. The path is simple: **'RED'** or **'BLUE'**.",
	},
	StageConstruct: {
		advance:        "JUMP",
		response:       "Success! (But he still fell).\n\n**SCENARIO:** Neo visits the Oracle. Agents ambush the team. Morpheus fights Smith to save Neo and is captured. He is being held in a military skyscraper.\n\n**COMMAND:** Neo and Trinity need guns. Lots of guns. Type **'RESCUE'** to storm the lobby.",
		next:           StageLobby,
		divert:         "HESITATE",
		divertResponse: "Neo fails the jump. Doubt is the enemy. Morpheus is disappointed.\n\nType **'RESET'** to return to the last checkpoint (Stage 2).",
		divertNext:     StageConstruct,
		nudge:          "Action not recognized. Instruct him to **'JUMP'** or **'HESITATE'**.",
	},
	StageLobby: {
		advance:  "RESCUE",
		response: "**SCENARIO:** The Lobby Shootout. Neo and Trinity clear the ground floor. They reach the roof, but an Agent is waiting. He fires at Neo.\n\n**CHALLENGE:** Neo moves like them. Type **'DODGE'** to evade the bullets.",
		next:     StageRoof,
		nudge:    "We must save Morpheus. Type **'RESCUE'** to begin the assault.",
	},
	StageRoof: {
		advance:  "DODGE",
		response: "Bullets evaded. Trinity pilots the B-212 helicopter. Neo takes the minigun.\n\n**SCENARIO:** Morpheus is in the interrogation room. Agents are firing back. The helicopter is unstable.\n\n**CHALLENGE:** Break the glass to save Morpheus. Type **'FIRE'** to unleash the minigun.",
		next:     StageHelicopter,
		nudge:    "You must act fast. Type **'DODGE'**.",
	},
	StageHelicopter: {
		advance:  "FIRE",
		response: "Glass shattered! Morpheus leaps onto the helicopter landing gear. They drop Neo at the subway station.\n\n**SCENARIO:** Agent Smith blocks the exit. The train is coming.\n\n**CLIMAX:** Neo stops running. He turns to face Smith. Type **'FIGHT'** to begin the duel.",
		next:     StageSubway,
		nudge:    "Use the minigun. Type **'FIRE'**.",
	},
	StageSubway: {
		advance:  "FIGHT",
		response: "Neo defeats Smith, but Sentinels attack the ship in the real world. Neo runs to Room 303... and is shot by Smith. HE IS DEAD.\n\n**CRISIS:** Trinity speaks to his body: 'The Oracle told me I would fall in love, and that man would be The One.'\n\n**COMMAND:** Neo must wake up. Type **'BELIEVE'** to return.",
		next:     StageRoom303,
		nudge:    "He must fight. Type **'FIGHT'**.",
	},
	StageRoom303: {
		advance:  "BELIEVE",
		response: "**SYSTEM ALERT:** ANOMALY CONFIRMED. CODE REINTEGRATION COMPLETE.\n\nNeo rises. He stops the bullets. He destroys Smith. The Sentinels are disabled.\n\n**YOU ARE THE ONE.**\n\nType **'FINISH'** to log this simulation.",
		next:     StageVictory,
		nudge:    "Trinity needs him. Type **'BELIEVE'**.",
	},
	StageVictory: {
		advance:  "FINISH",
		response: "SIMULATION LOGGED. CONNECTION TERMINATED.\n\nType **'RESET'** to start a new simulation.",
		next:     StageVictory,
		effects:  []Effect{EffectWinCue, EffectLogSuccess},
		detail:   DetailSuccess,
		nudge:    "Victory confirmed. Type **'FINISH'**.",
	},
}

// Vocabulary returns the commands a stage recognizes, excluding RESET.
func Vocabulary(s Stage) []string {
	if !s.Active() && s != StageVictory {
		return nil
	}
	b := beats[s]
	if b.divert == "" {
		return []string{b.advance}
	}
	return []string{b.advance, b.divert}
}
