package console

import (
	"strings"

	"github.com/MRamiBalles/VirtualPets/internal/domain/pet"
)

// Some of these contain backticks, so they are built line by line.
var art = map[pet.Kind][]string{
	pet.Cat: {
		"                    _,'|             _.-''``-...___..--';)",
		"                   /_ \\'.      __..-' ,      ,--...--'''",
		"                  <\\    .`--'''       `     /'",
		"                   `-';'               ;   ; ;",
		"             __...--''     ___...--_..'  .;.'",
		"            (,__....----'''       (,..--''",
	},
	pet.Dog: {
		"                                    __",
		"             ,                    ,´ e`--o",
		"            ((                   (  | __,'",
		"             \\\\~----------------' \\_;/",
		"             (                      /",
		"             /) ._______________.  )",
		"            (( (               (( (",
		"             ``-'               ``-'",
	},
	pet.Rabbit: {
		"                       (`.         ,-,",
		"                       `\\ `.    ,;' /",
		"                        \\`. \\ ,'/ .'",
		"                  __     `.\\ Y /.'",
		"               .-'  ''--.._` ` (",
		"             .'            /   `",
		"            ,           ` '   Q '",
		"            ,         ,   `._    \\",
		"            |         '     `-.;_'",
		"            `  ;    `  ` --,.._;",
		"            `    ,   )   .'",
		"             `._ ,  '   /_",
		"                ; ,''-,;' ``-",
		"                 ``-..__\\``--`",
	},
	pet.Turtle: {
		"                                                                 ,'",
		"                                                          ,;",
		"                                                        .'/",
		"                   `-_                                .'.'",
		"                     `;-_                           .' /",
		"                       `.-.        ,_.-'`'--'`'-._.` .'",
		"                         `.`-.    /    .'´'.   _.'  /",
		"                           `. '-.'_.._/0 _ 0\\/`    {\\",
		"                             `.      |'-^Y^- |     //",
		"                              (`\\     \\_.'._/\\...-;..-.",
		"                              `._'._,'` ```    _.:---''`",
		"                                 ;-....----'''`",
		"                                /   (",
		"                           sk   |  (`",
		"                                `.^'",
	},
	pet.Parrot: {
		"        ______ __",
		"       {-_-_= '. `'.",
		"        {=_=_-  \\   \\",
		"         {_-_   |   /",
		"          '-.   |  /    .===,",
		"       .--.__\\  |_(_,==`  ( o)'-.",
		"      `---.=_ `     ;      `/    \\",
		"          `,-_       ;    .'--') /",
		"            {=_       ;=~`    `*`",
		"             `//__,-=~`",
		"             <<__ \\\\__",
		"       jgs   /`)))/`)))",
	},
	pet.Horse: {
		"                                ;;",
		"                              ,;;'\\",
		"                   __       ,;;' ' \\",
		"                 /'  '\\'~~'~' \\ /'\\.)",
		"              ,;(      )    /  |",
		"             ,;' \\    /-.,,(   )",
		"                  ) /       ) /",
		"                  ||        ||",
		"                  (_\\       (_\\",
	},
}

// Art returns the picture drawn above a pet of the given kind, or "" for
// an unknown kind.
func Art(k pet.Kind) string {
	return strings.Join(art[k], "\n")
}
