package pet

var phrases = map[Kind][]string{
	Cat: {
		"Meow. Purr... purr...",
		"*stares at you, then knocks your cup off the table*",
		"Mrrrow? Is that tuna I smell?",
		"*kneads the blanket for a while*",
	},
	Dog: {
		"Woof! Woof!",
		"*wags tail so hard the whole body wiggles*",
		"Arf! Did somebody say walk?",
		"*drops a soggy ball at your feet*",
	},
	Rabbit: {
		"*thump thump*",
		"*twitches nose at you*",
		"*does a little binky in the air*",
		"*nibbles on the corner of the carpet*",
	},
	Turtle: {
		"*slowly blinks*",
		"*pokes head out of the shell... and back in*",
		"*chews on a piece of lettuce, very slowly*",
		"...",
	},
	Parrot: {
		"Ca-caw! You're funny!",
		"Pretty bird! Pretty bird!",
		"Squawk! Who's a good human?",
		"*imitates the microwave beeping*",
	},
	Horse: {
		"Neigh!",
		"*snorts and paws at the ground*",
		"Weugh.",
		"*nudges your pocket looking for apples*",
	},
}

const (
	hungryAndBoredLine = "I'm starving and there's nothing to do around here!"
	hungryLine         = "Is it dinner time yet? My tummy is rumbling."
	boredLine          = "I'm so bored... can we play?"
)
